package chatbot

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/easeaico/kb-chatbot/internal/knowledge"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const sampleINI = "[who]\neinstein=a physicist\n[where]\nsit=a university in singapore\n\n"

// scriptedPrompter answers prompts from a fixed list and records the questions.
type scriptedPrompter struct {
	answers   []string
	questions []string
}

func (p *scriptedPrompter) Prompt(ctx context.Context, label string) (string, error) {
	p.questions = append(p.questions, label)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type botFixture struct {
	bot      *Bot
	kb       *knowledge.Base
	fs       afero.Fs
	prompter *scriptedPrompter
	display  *bytes.Buffer
}

func newBotFixture(t *testing.T, answers ...string) *botFixture {
	t.Helper()
	f := &botFixture{
		kb:       knowledge.New(),
		fs:       afero.NewMemMapFs(),
		prompter: &scriptedPrompter{answers: answers},
		display:  &bytes.Buffer{},
	}
	require.NoError(t, afero.WriteFile(f.fs, "sample.ini", []byte(sampleINI), 0o644))
	f.bot = NewBot(f.kb, f.fs, f.prompter, f.display, zap.NewNop())
	return f
}

func (f *botFixture) say(t *testing.T, input string) Reply {
	t.Helper()
	reply, err := f.bot.Respond(context.Background(), input)
	require.NoError(t, err)
	return reply
}

func TestBot_EmptyInput(t *testing.T) {
	f := newBotFixture(t)

	assert.Equal(t, Reply{}, f.say(t, ""))
	assert.Equal(t, Reply{}, f.say(t, "   \t "))
}

func TestBot_Unknown(t *testing.T) {
	f := newBotFixture(t)

	assert.Equal(t, Reply{Text: `I don't understand "Foo".`}, f.say(t, "Foo bar baz"))
	assert.Equal(t, Reply{Text: `I don't understand "why".`}, f.say(t, "why is the sky blue"))
}

func TestBot_Exit(t *testing.T) {
	for _, input := range []string{"exit", "QUIT", "Exit now"} {
		t.Run(input, func(t *testing.T) {
			f := newBotFixture(t)
			f.say(t, "load sample.ini")
			require.False(t, f.kb.Empty())

			assert.Equal(t, Reply{Text: "Goodbye!", Done: true}, f.say(t, input))
			assert.True(t, f.kb.Empty())
		})
	}
}

func TestBot_Smalltalk(t *testing.T) {
	tests := []struct {
		input string
		want  Reply
	}{
		{"hello", Reply{Text: "Hello there! We are programmed by humans of SIT!"}},
		{"Hi Zeus", Reply{Text: "Hello there! We are programmed by humans of SIT!"}},
		{"HEY", Reply{Text: "Hello there! We are programmed by humans of SIT!"}},
		{"Greetings earthling", Reply{Text: "Hello there! We are programmed by humans of SIT!"}},
		{"tell me a joke", Reply{Text: "Can't tell you anything."}},
		{"dead", Reply{Text: "Sir, Death is what makes life precious."}},
		{"OK", Reply{Text: "I'm fine."}},
		{"it is sunny", Reply{Text: "Indeed it is."}},
		{"it's sunny", Reply{Text: "Indeed it is."}},
		{"bye", Reply{Text: "Goodbye, See you soon!", Done: true}},
		{"Goodbye", Reply{Text: "Goodbye, See you soon!", Done: true}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := newBotFixture(t)
			assert.Equal(t, tt.want, f.say(t, tt.input))
		})
	}
}

func TestBot_Display(t *testing.T) {
	f := newBotFixture(t)
	f.say(t, "load sample.ini")

	assert.Equal(t, Reply{Text: "Knowledge base displayed."}, f.say(t, "display"))
	assert.Contains(t, f.display.String(), "{ einstein=a physicist } -> NULL")
}

func TestBot_Load(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		pairs int
	}{
		{"plain", "load sample.ini", "Read 2 responses from sample.ini.", 2},
		{"from", "load from sample.ini", "Read 2 responses from sample.ini.", 2},
		{"upper-case extension", "LOAD Upper.INI", "Read 1 responses from Upper.INI.", 1},
		{"spaces in name", "load my notes.ini", "Read 1 responses from my notes.ini.", 1},
		{"wrong type", "load sample.txt", "File type not supported. Please use .ini files.", 0},
		{"no file", "load", "File type not supported. Please use .ini files.", 0},
		{"missing file", "load missing.ini", "Could not open file for reading. Please check file name.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture(t)
			require.NoError(t, afero.WriteFile(f.fs, "Upper.INI", []byte("[what]\nsit=a university\n"), 0o644))
			require.NoError(t, afero.WriteFile(f.fs, "my notes.ini", []byte("[what]\nsit=a university\n"), 0o644))

			assert.Equal(t, Reply{Text: tt.want}, f.say(t, tt.input))
			assert.Len(t, pairs(f.kb), tt.pairs)
		})
	}
}

func TestBot_LoadMalformed(t *testing.T) {
	f := newBotFixture(t)
	require.NoError(t, afero.WriteFile(f.fs, "bad.ini", []byte("[who]\neinstein=a physicist\n[where\n"), 0o644))

	reply := f.say(t, "load bad.ini")
	assert.Contains(t, reply.Text, "Failed to read bad.ini")
	assert.Contains(t, reply.Text, "line 3")

	// Pairs before the bad header are kept.
	assert.Equal(t, Reply{Text: "a physicist"}, f.say(t, "who is einstein"))
}

func TestBot_QuestionFound(t *testing.T) {
	f := newBotFixture(t)
	f.say(t, "load sample.ini")

	assert.Equal(t, Reply{Text: "a physicist"}, f.say(t, "Who is einstein"))
	assert.Equal(t, Reply{Text: "a physicist"}, f.say(t, "WHO einstein"))
	assert.Equal(t, Reply{Text: "a university in singapore"}, f.say(t, "where is sit"))
	assert.Empty(t, f.prompter.questions)
}

func TestBot_QuestionLearnsUnknownEntity(t *testing.T) {
	f := newBotFixture(t, "  a mathematician \n")
	f.say(t, "load sample.ini")

	assert.Equal(t, Reply{Text: "Thank you."}, f.say(t, "who is Newton"))
	assert.Equal(t, []string{"I don't know. Who is Newton?"}, f.prompter.questions)

	assert.Equal(t, Reply{Text: "a mathematician"}, f.say(t, "who is Newton"))
	assert.Len(t, f.prompter.questions, 1)
}

func TestBot_QuestionCreatesMissingSection(t *testing.T) {
	f := newBotFixture(t, "a university")

	assert.Equal(t, Reply{Text: "Thank you."}, f.say(t, "what sit"))
	assert.Equal(t, []string{"I don't know. What sit?"}, f.prompter.questions)

	answer, err := f.kb.Get("what", "sit")
	require.NoError(t, err)
	assert.Equal(t, "a university", answer)
}

func TestBot_QuestionEmptyAnswer(t *testing.T) {
	f := newBotFixture(t, "   ")

	assert.Equal(t, Reply{Text: ":-("}, f.say(t, "where are the keys"))
	assert.Equal(t, []string{"I don't know. Where are the keys?"}, f.prompter.questions)

	// The section exists now, but holds no answer.
	_, err := f.kb.Get("where", "the keys")
	assert.ErrorIs(t, err, knowledge.ErrNotFound)
}

func TestBot_QuestionWithoutEntity(t *testing.T) {
	f := newBotFixture(t)

	assert.Equal(t, Reply{Text: "Please give entity :-("}, f.say(t, "what"))
	assert.Equal(t, Reply{Text: "Please give entity :-("}, f.say(t, "who IS"))
	assert.Empty(t, f.prompter.questions)
}

func TestBot_QuestionMultiWordEntity(t *testing.T) {
	f := newBotFixture(t, "a university in singapore")

	assert.Equal(t, Reply{Text: "Thank you."}, f.say(t, "WHAT IS  Singapore   Institute of Technology"))
	assert.Equal(t, []string{"I don't know. What is Singapore Institute of Technology?"}, f.prompter.questions)

	answer, err := f.kb.Get("what", "Singapore Institute of Technology")
	require.NoError(t, err)
	assert.Equal(t, "a university in singapore", answer)
}

func TestBot_QuestionInputEnds(t *testing.T) {
	f := newBotFixture(t)

	_, err := f.bot.Respond(context.Background(), "who is newton")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBot_Reset(t *testing.T) {
	f := newBotFixture(t)
	f.say(t, "load sample.ini")

	assert.Equal(t, Reply{Text: "Chatbot Reset."}, f.say(t, "reset"))
	assert.True(t, f.kb.Empty())
	assert.Equal(t, Reply{Text: "Chatbot Reset."}, f.say(t, "RESET"))
}

func TestBot_Save(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		file  string
	}{
		{"plain", "save out.ini", "My knowledge has been saved to out.ini.", "out.ini"},
		{"as", "save as out.ini", "My knowledge has been saved to out.ini.", "out.ini"},
		{"to", "save TO out.ini", "My knowledge has been saved to out.ini.", "out.ini"},
		{"no name", "save", "Please specify a file name ending with '.ini'.", ""},
		{"as without name", "save as", "Please specify a file name ending with '.ini'.", ""},
		{"bare extension", "save .ini", "Please specify a filename!", ""},
		{"bare extension after to", "save to .INI", "Please specify a filename!", ""},
		{"wrong type", "save out.txt", "Please specify the correct type of file name ending with '.ini'.", ""},
		{"no extension", "save as out", "Please specify the correct type of file name ending with '.ini'.", ""},
		{"bare extension in directory", "save dir/.ini", "Please specify the correct type of file name ending with '.ini'.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture(t)
			f.say(t, "load sample.ini")

			assert.Equal(t, Reply{Text: tt.want}, f.say(t, tt.input))
			if tt.file == "" {
				return
			}
			data, err := afero.ReadFile(f.fs, tt.file)
			require.NoError(t, err)
			assert.Equal(t, "[where]\nsit=a university in singapore\n\n[who]\neinstein=a physicist\n\n", string(data))
		})
	}
}

func TestBot_SaveEmpty(t *testing.T) {
	f := newBotFixture(t)

	assert.Equal(t, Reply{Text: "There is no knowledge to be saved!"}, f.say(t, "save out.ini"))
	exists, err := afero.Exists(f.fs, "out.ini")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBot_SaveReadOnly(t *testing.T) {
	kb := knowledge.New()
	require.NoError(t, kb.EnsureSection("who"))
	bot := NewBot(kb, afero.NewReadOnlyFs(afero.NewMemMapFs()), &scriptedPrompter{}, io.Discard, zap.NewNop())

	reply, err := bot.Respond(context.Background(), "save out.ini")
	require.NoError(t, err)
	assert.Equal(t, "Could not open file for writing. Please check file name.", reply.Text)
}

func TestBot_SaveThenLoad(t *testing.T) {
	f := newBotFixture(t, "a mathematician")
	f.say(t, "load sample.ini")
	f.say(t, "who is newton")
	f.say(t, "save as all.ini")
	f.say(t, "reset")

	assert.Equal(t, Reply{Text: "Read 3 responses from all.ini."}, f.say(t, "load all.ini"))
	assert.Equal(t, Reply{Text: "a mathematician"}, f.say(t, "who is newton"))
}

func TestBot_QuestionRejectsEntitiesTheFileCannotHold(t *testing.T) {
	for _, input := range []string{"who is a=b", "who is [what]", "who is [x", "what = b", "where [where]"} {
		t.Run(input, func(t *testing.T) {
			f := newBotFixture(t, "an answer")
			f.say(t, "load sample.ini")

			assert.Equal(t, Reply{Text: "Please give entity :-("}, f.say(t, input))
			assert.Empty(t, f.prompter.questions)
			assert.Equal(t, map[string]string{
				"who/einstein": "a physicist",
				"where/sit":    "a university in singapore",
			}, pairs(f.kb))
		})
	}
}

func TestBot_EntitiesNearFileSyntaxSurviveSaveAndLoad(t *testing.T) {
	f := newBotFixture(t, "one", "two", "three")
	f.say(t, "who is x]")
	f.say(t, "what is a[b]")
	f.say(t, "where is c[d")
	want := pairs(f.kb)
	require.Len(t, want, 3)

	assert.Equal(t, Reply{Text: "My knowledge has been saved to all.ini."}, f.say(t, "save as all.ini"))
	f.say(t, "reset")
	assert.Equal(t, Reply{Text: "Read 3 responses from all.ini."}, f.say(t, "load all.ini"))
	assert.Equal(t, want, pairs(f.kb))
}

func TestBot_QuestionCapsLengths(t *testing.T) {
	longAnswer := strings.Repeat("ü", MaxAnswerLength+10)
	f := newBotFixture(t, longAnswer)

	entity := strings.Repeat("é", MaxEntityLength) + " tail"
	assert.Equal(t, Reply{Text: "Thank you."}, f.say(t, "who is "+entity))

	stored := pairs(f.kb)
	require.Len(t, stored, 1)
	for key, answer := range stored {
		assert.Equal(t, "who/"+strings.Repeat("é", MaxEntityLength), key)
		assert.Equal(t, strings.Repeat("ü", MaxAnswerLength), answer)
	}

	// A longer question about the same entity finds the stored answer.
	assert.Equal(t, Reply{Text: strings.Repeat("ü", MaxAnswerLength)}, f.say(t, "who is "+entity+" again"))
	assert.Len(t, f.prompter.questions, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "日本", truncate("日本語", 2))
	assert.Equal(t, "", truncate("", 5))
}

func pairs(kb *knowledge.Base) map[string]string {
	out := make(map[string]string)
	for _, s := range kb.Dump() {
		for _, e := range s.Entries {
			out[s.Intent+"/"+e.Key] = e.Answer
		}
	}
	return out
}
