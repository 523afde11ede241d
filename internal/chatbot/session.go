package chatbot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/easeaico/kb-chatbot/internal/knowledge"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var botLabel = color.New(color.FgCyan, color.Bold).SprintFunc()

// Turn is one line of the conversation.
type Turn struct {
	Speaker string
	Text    string
}

// SessionConfig names the two sides of the conversation.
type SessionConfig struct {
	BotName  string
	UserName string
}

// Session runs the read-eval-print loop between a user and a Bot.
type Session struct {
	cfg     SessionConfig
	bot     *Bot
	input   Prompter
	out     io.Writer
	logger  *zap.Logger
	history []Turn
}

// NewSession creates a session over kb. User lines are read through input and
// everything the bot says is written to out.
func NewSession(cfg SessionConfig, kb *knowledge.Base, fs afero.Fs, input Prompter, out io.Writer, logger *zap.Logger) *Session {
	s := &Session{
		cfg:    cfg,
		input:  input,
		out:    out,
		logger: logger,
	}
	s.bot = NewBot(kb, fs, s, out, logger)
	return s
}

// Bot returns the bot answering in this session.
func (s *Session) Bot() *Bot {
	return s.bot
}

// History returns the conversation so far.
func (s *Session) History() []Turn {
	return s.history
}

// Run chats until the bot ends the conversation or the input is exhausted.
// It returns the context error if ctx is cancelled first.
func (s *Session) Run(ctx context.Context) error {
	s.say(fmt.Sprintf("Hello, I'm %s.", s.cfg.BotName))

	for {
		line, err := s.readUser(ctx)
		if err != nil {
			return endOfInput(err)
		}

		reply, err := s.bot.Respond(ctx, line)
		if err != nil {
			return endOfInput(err)
		}
		if reply.Text != "" {
			s.say(reply.Text)
		}
		if reply.Done {
			s.logger.Debug("conversation ended", zap.Int("turns", len(s.history)))
			return nil
		}
	}
}

// Prompt lets the bot ask the user a question mid-turn.
func (s *Session) Prompt(ctx context.Context, question string) (string, error) {
	s.say(question)
	return s.readUser(ctx)
}

func (s *Session) say(text string) {
	fmt.Fprintf(s.out, "%s %s\n", botLabel(s.cfg.BotName+":"), text)
	s.history = append(s.history, Turn{Speaker: s.cfg.BotName, Text: text})
}

func (s *Session) readUser(ctx context.Context) (string, error) {
	line, err := s.input.Prompt(ctx, s.cfg.UserName)
	if err != nil {
		return "", err
	}
	s.history = append(s.history, Turn{Speaker: s.cfg.UserName, Text: line})
	return line, nil
}

// endOfInput treats exhausted input as a normal end of the conversation.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
