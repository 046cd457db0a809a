// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

// promptData is the data passed to the prompt template.
type promptData struct {
	SourceText     string
	SourceLanguage string
	TargetLanguage string
}

// responseSchema is the expected JSON shape of the model response. The
// response is an untrusted external payload: every required field is
// checked before the content is accepted.
type responseSchema struct {
	SourceText         string `json:"source_text"`
	TargetText         string `json:"target_text"`
	ExampleSentence    string `json:"example_sentence"`
	ExampleTranslation string `json:"example_translation"`
	PartOfSpeech       string `json:"part_of_speech,omitempty"`
}
