package models

// Question matches the quiz document schema produced by the authoring tool:
// four answer options with the index of the correct one.
type Question struct {
	Text    string   `json:"question"`
	Img     string   `json:"img,omitempty"`
	Answers []string `json:"answers"`
	Correct int      `json:"correct"`
}

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4
