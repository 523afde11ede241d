// Package chatbot turns user input into replies backed by a knowledge base.
// Questions the knowledge base cannot answer are turned around on the user,
// and the answer is remembered.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/easeaico/kb-chatbot/internal/knowledge"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Longest entity and answer the bot accepts, in runes. Longer input is cut.
const (
	MaxEntityLength = 64
	MaxAnswerLength = 256
)

// Reply is the bot's answer to one line of input.
type Reply struct {
	Text string
	// Done is set when the conversation should end.
	Done bool
}

// Bot answers user input. It is not safe for concurrent use.
type Bot struct {
	kb       *knowledge.Base
	fs       afero.Fs
	prompter Prompter
	display  io.Writer
	logger   *zap.Logger
}

// NewBot creates a Bot. prompter asks the user for answers the knowledge base
// lacks, and display receives the rendered tables of the display command.
func NewBot(kb *knowledge.Base, fs afero.Fs, prompter Prompter, display io.Writer, logger *zap.Logger) *Bot {
	return &Bot{
		kb:       kb,
		fs:       fs,
		prompter: prompter,
		display:  display,
		logger:   logger,
	}
}

// Knowledge returns the knowledge base the bot answers from.
func (b *Bot) Knowledge() *knowledge.Base {
	return b.kb
}

// Respond dispatches input on its first word and returns the reply.
// An error is returned only when the reply could not be produced, such as
// the user input ending while the bot was waiting for an answer.
func (b *Bot) Respond(ctx context.Context, input string) (Reply, error) {
	words := Tokenize(input)
	if len(words) == 0 {
		return Reply{}, nil
	}

	intent := words[0]
	b.logger.Debug("dispatching input", zap.String("intent", intent), zap.Int("words", len(words)))

	switch {
	case isExit(intent):
		return b.handleExit(), nil
	case isDisplay(intent):
		return b.handleDisplay()
	case isSmalltalk(intent):
		return b.handleSmalltalk(intent), nil
	case isLoad(intent):
		return b.handleLoad(words[1:]), nil
	case isQuestion(intent):
		return b.handleQuestion(ctx, words)
	case isReset(intent):
		return b.handleReset(), nil
	case isSave(intent):
		return b.handleSave(words[1:]), nil
	default:
		return Reply{Text: fmt.Sprintf("I don't understand \"%s\".", intent)}, nil
	}
}

func isSmalltalk(word string) bool {
	_, ok := lookupSmalltalk(word)
	return ok
}

// handleExit forgets everything and ends the conversation.
func (b *Bot) handleExit() Reply {
	b.kb.Reset()
	return Reply{Text: "Goodbye!", Done: true}
}

// handleDisplay renders both table levels to the display writer.
func (b *Bot) handleDisplay() (Reply, error) {
	if err := knowledge.Render(b.display, b.kb); err != nil {
		return Reply{}, fmt.Errorf("failed to display knowledge: %w", err)
	}
	return Reply{Text: "Knowledge base displayed."}, nil
}

func (b *Bot) handleSmalltalk(word string) Reply {
	r, _ := lookupSmalltalk(word)
	return Reply{Text: r.text, Done: r.done}
}

// handleLoad reads an .ini file into the knowledge base. args may start
// with "from"; the remaining words form the file name.
func (b *Bot) handleLoad(args []string) Reply {
	if len(args) > 0 && matches(args[0], "from") {
		args = args[1:]
	}
	name := joinWords(args)
	if !knowledge.IsFileName(name) {
		return Reply{Text: "File type not supported. Please use .ini files."}
	}

	f, err := b.fs.Open(name)
	if err != nil {
		b.logger.Warn("failed to open knowledge file", zap.String("file", name), zap.Error(err))
		return Reply{Text: "Could not open file for reading. Please check file name."}
	}
	defer f.Close()

	n, err := knowledge.Read(f, b.kb)
	if err != nil {
		b.logger.Warn("failed to read knowledge file", zap.String("file", name), zap.Int("pairs", n), zap.Error(err))
		return Reply{Text: fmt.Sprintf("Failed to read %s: %v", name, err)}
	}

	b.logger.Info("loaded knowledge", zap.String("file", name), zap.Int("pairs", n))
	return Reply{Text: fmt.Sprintf("Read %d responses from %s.", n, name)}
}

// handleQuestion answers "<intent> [is|are] <entity>". Unknown entities are
// asked back to the user and the answer is stored.
func (b *Bot) handleQuestion(ctx context.Context, words []string) (Reply, error) {
	intent, _ := knowledge.Recognized(words[0])

	rest := words[1:]
	var verb string
	if len(rest) > 0 && matches(rest[0], "is", "are") {
		verb = strings.ToLower(rest[0])
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return Reply{Text: "Please give entity :-("}, nil
	}
	entity := strings.TrimSpace(truncate(joinWords(rest), MaxEntityLength))
	if !knowledge.ValidEntity(entity) {
		return Reply{Text: "Please give entity :-("}, nil
	}

	answer, err := b.kb.Get(intent, entity)
	switch {
	case err == nil:
		return Reply{Text: answer}, nil
	case errors.Is(err, knowledge.ErrInvalidIntent):
		// The intent is recognized, so only its section is missing.
		if err := b.kb.EnsureSection(intent); err != nil {
			return Reply{}, err
		}
	case !errors.Is(err, knowledge.ErrNotFound):
		return Reply{}, err
	}

	answer, err = b.prompter.Prompt(ctx, question(intent, verb, entity))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = truncate(strings.TrimSpace(answer), MaxAnswerLength)
	if answer == "" {
		return Reply{Text: ":-("}, nil
	}

	if err := b.kb.Put(intent, entity, answer); err != nil {
		return Reply{}, err
	}
	b.logger.Debug("learned answer", zap.String("intent", intent), zap.String("entity", entity))
	return Reply{Text: "Thank you."}, nil
}

// question builds the prompt for an unknown entity, e.g. "I don't know. Who is Newton?".
func question(intent, verb, entity string) string {
	parts := []string{strings.ToUpper(intent[:1]) + intent[1:]}
	if verb != "" {
		parts = append(parts, verb)
	}
	parts = append(parts, entity)
	return fmt.Sprintf("I don't know. %s?", strings.Join(parts, " "))
}

func (b *Bot) handleReset() Reply {
	b.kb.Reset()
	b.logger.Info("knowledge reset")
	return Reply{Text: "Chatbot Reset."}
}

// handleSave writes the knowledge base to "save [as|to] <file.ini>".
func (b *Bot) handleSave(args []string) Reply {
	if b.kb.Empty() {
		return Reply{Text: "There is no knowledge to be saved!"}
	}

	if len(args) > 0 && matches(args[0], "as", "to") {
		args = args[1:]
	}
	if len(args) == 0 {
		return Reply{Text: "Please specify a file name ending with '.ini'."}
	}

	name := joinWords(args)
	if knowledge.EqualFold(name, knowledge.FileExt) {
		return Reply{Text: "Please specify a filename!"}
	}
	if !knowledge.IsFileName(name) {
		return Reply{Text: "Please specify the correct type of file name ending with '.ini'."}
	}

	f, err := b.fs.Create(name)
	if err != nil {
		b.logger.Warn("failed to create knowledge file", zap.String("file", name), zap.Error(err))
		return Reply{Text: "Could not open file for writing. Please check file name."}
	}
	werr := knowledge.Write(f, b.kb)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		b.logger.Warn("failed to save knowledge", zap.String("file", name), zap.Error(err))
		return Reply{Text: fmt.Sprintf("Failed to save %s: %v", name, err)}
	}

	b.logger.Info("saved knowledge", zap.String("file", name))
	return Reply{Text: fmt.Sprintf("My knowledge has been saved to %s.", name)}
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
