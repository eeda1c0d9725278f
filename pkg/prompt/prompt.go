package prompt

import (
	"fmt"

	"github.com/samber/mo"
)

// NoFile stands in for file content when the request carried no upload.
const NoFile = "no file"

// SystemMessage is sent as the system role on every completion.
const SystemMessage = "You are a helpful assistant specialized in answering IIT Madras Data Science course questions."

const userTemplate = `You are an expert in Data Science and a student at IIT Madras.
Please answer the following question from the IIT Madras Data Science course assignment.
If a file was provided, here is its content: %s

Question: %s

Please provide a clear, concise answer that can be directly entered into the assignment.
Focus on accuracy and ensure the answer is in the correct format.`

// Compose builds the user prompt. Content is inserted verbatim.
func Compose(question string, content mo.Option[string]) string {
	return fmt.Sprintf(userTemplate, content.OrElse(NoFile), question)
}

// Truncate cuts content to at most max runes. max <= 0 leaves it untouched.
func Truncate(content string, max int) (string, bool) {
	if max <= 0 {
		return content, false
	}
	runes := []rune(content)
	if len(runes) <= max {
		return content, false
	}
	return string(runes[:max]), true
}
