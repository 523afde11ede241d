package chatbot

import (
	"strings"

	"github.com/easeaico/kb-chatbot/internal/knowledge"
)

// Tokenize splits input into words on runs of whitespace.
func Tokenize(input string) []string {
	return strings.Fields(input)
}

// matches reports whether word equals any of the given keywords, ignoring ASCII case.
func matches(word string, keywords ...string) bool {
	for _, k := range keywords {
		if knowledge.EqualFold(word, k) {
			return true
		}
	}
	return false
}

func isExit(word string) bool {
	return matches(word, "exit", "quit")
}

func isDisplay(word string) bool {
	return matches(word, "display")
}

func isLoad(word string) bool {
	return matches(word, "load")
}

func isQuestion(word string) bool {
	_, ok := knowledge.Recognized(word)
	return ok
}

func isReset(word string) bool {
	return matches(word, "reset")
}

func isSave(word string) bool {
	return matches(word, "save")
}

// joinWords rebuilds a multi-word argument such as an entity or a file name.
func joinWords(words []string) string {
	return strings.Join(words, " ")
}
