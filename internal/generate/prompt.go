// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// ideasPromptTmpl asks the model for a batch of topic ideas as a JSON array.
var ideasPromptTmpl = template.Must(template.New("ideas").Parse(`You are an expert educator who creates engaging technical content ideas.

Generate {{.Count}} unique and interesting topics for educational content.
Focus on: {{.Category}}

For each topic, provide:
1. A concise topic title (3-8 words)
2. A brief description (1-2 sentences)

Respond with a JSON array using this exact structure:
[
  {"topic": "Topic Title", "description": "Brief description of the topic"},
  ...
]

Make the topics diverse, covering different skill levels (beginner to advanced)
and different areas within {{.Category}}. Focus on practical, actionable topics
that would make good tutorial or educational content. Do not include any text
outside the JSON.`))

// articlePromptTmpl asks the model to expand one topic into a full article.
var articlePromptTmpl = template.Must(template.New("article").Parse(`You are an expert educator and technical writer who creates clear, comprehensive, and engaging educational content.

Write a comprehensive, educational article about the following topic:

Topic: {{.Topic}}{{if .Description}}
Context: {{.Description}}{{end}}

Requirements:
- Target length: approximately {{.TargetWords}} words
- Include practical examples and code snippets where appropriate
- Structure the content with clear sections
- Include best practices and common pitfalls
- Use Markdown formatting for better readability

Respond with a JSON object using this structure:
{"title": "An engaging title for the article", "content": "The full article content in Markdown format"}

Do not include any text outside the JSON object.`))

// similarityPromptTmpl asks the model for a duplicate-topic verdict.
var similarityPromptTmpl = template.Must(template.New("similarity").Parse(`You are an expert at identifying duplicate or overlapping content topics.

Determine if the following new topic is substantially similar to any of the
existing topics. Consider them similar if they would result in overlapping or
redundant content.

New topic: "{{.Topic}}"

Existing topics:
{{range .Existing}}- {{.}}
{{end}}
Respond with a JSON object:
{"is_similar": true or false, "reason": "Brief explanation of your decision"}

Do not include any text outside the JSON object.`))

// renderPrompt executes a prompt template with the given data.
func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
