package session

import (
	"fmt"

	"github.com/coldiron/betacraft/internal/wire"
)

// handleChat is spec.md §4.3: a leading-`/` message is parsed and
// dispatched through the hook registry's chat-command table (with alias
// rewriting); anything else is formatted "<username> message" and
// broadcast.
func (s *Session) handleChat(p *wire.Chat) error {
	name, args, isCommand := parseChatMessage(p.Message)
	if !isCommand {
		s.bus.Chat(fmt.Sprintf("<%s> %s", s.Username(), p.Message))
		return nil
	}
	if name == "" {
		return nil
	}

	cmd, ok := s.reg.ChatCommand(name)
	if !ok {
		return s.WritePacket(&wire.Chat{Message: unknownCommandReply(name)})
	}

	seq, err := cmd(s.ctx, s.bus, s.Username(), args)
	if err != nil {
		return s.WritePacket(&wire.Chat{Message: fmt.Sprintf("Error: %s", err)})
	}
	for line := range seq {
		if err := s.WritePacket(&wire.Chat{Message: line}); err != nil {
			return err
		}
	}
	return nil
}
