// Package profanity screens requester names before they reach the queue.
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

// Thai words the English base dictionary does not cover.
var thaiWords = []string{
	"ควย", "หี", "เหี้ย", "หน้าหี", "อีดอก", "อีสัตว์", "ไอ้สัตว์",
	"อีควาย", "ไอ้ควาย", "กระหรี่", "อีกระหรี่", "แม่ง", "เย็ด", "ชิบหาย",
	"สันดาน", "ระยำ", "อีห่า", "ไอ้ห่า", "อีหน้าหมา", "หน้าหมา",
}

type Checker struct {
	detector *goaway.ProfanityDetector
}

// NewChecker builds a detector over go-away's English dictionary (which
// already handles l33t-speak and special-character evasion) extended with
// the Thai word list.
func NewChecker() *Checker {
	profanities := make([]string, 0, len(goaway.DefaultProfanities)+len(thaiWords))
	profanities = append(profanities, goaway.DefaultProfanities...)
	profanities = append(profanities, thaiWords...)

	// Accent sanitization strips Unicode combining marks, which would mangle
	// Thai vowel and tone marks and break matching against thaiWords.
	detector := goaway.NewProfanityDetector().
		WithSanitizeAccents(false).
		WithCustomDictionary(
			profanities,
			goaway.DefaultFalsePositives,
			goaway.DefaultFalseNegatives,
		)
	return &Checker{detector: detector}
}

func (c *Checker) IsProfane(text string) bool {
	if text == "" {
		return false
	}
	return c.detector.IsProfane(text)
}
