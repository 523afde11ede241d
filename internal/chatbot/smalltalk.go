package chatbot

type smalltalkReply struct {
	words []string
	text  string
	done  bool
}

var smalltalk = []smalltalkReply{
	{words: []string{"hello", "hi", "hey", "greetings"}, text: "Hello there! We are programmed by humans of SIT!"},
	{words: []string{"tell"}, text: "Can't tell you anything."},
	{words: []string{"dead"}, text: "Sir, Death is what makes life precious."},
	{words: []string{"ok"}, text: "I'm fine."},
	{words: []string{"it", "it's"}, text: "Indeed it is."},
	{words: []string{"bye", "goodbye"}, text: "Goodbye, See you soon!", done: true},
}

// lookupSmalltalk returns the canned reply for an opening word.
func lookupSmalltalk(word string) (smalltalkReply, bool) {
	for _, r := range smalltalk {
		if matches(word, r.words...) {
			return r, true
		}
	}
	return smalltalkReply{}, false
}
