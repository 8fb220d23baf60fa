package lesson

import (
	"fmt"
	"strings"
)

func buildPrompt(topic, levelDescription, languageName string) string {
	var b strings.Builder

	b.WriteString("You are an expert Scuba Diving Instructor (PADI/SSI Course Director level).\n")
	b.WriteString(fmt.Sprintf("Create a detailed, engaging lesson for a student at the %q level.\n", levelDescription))
	b.WriteString(fmt.Sprintf("The specific topic is: %q.\n", topic))
	b.WriteString(`
The content should be accurate, safe, and inspiring.
Explain complex physics or physiology simply if necessary.
Focus on safety and enjoyment.
Finish with a short quiz; every question needs at least two options and exactly one correct answer.
`)
	b.WriteString(fmt.Sprintf("Return the response in %s.", languageName))

	return b.String()
}
