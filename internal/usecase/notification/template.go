package notification

import (
	"html/template"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

var priorityColors = map[entities.Priority]string{
	entities.PriorityHigh:   "#ff4444",
	entities.PriorityMedium: "#ffaa00",
	entities.PriorityLow:    "#44ff44",
}

// PriorityColor is the table colour of a priority, grey when unknown
func PriorityColor(p entities.Priority) string {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return "#888"
}

func shortID(id string) string {
	r := []rune(id)
	if len(r) > 8 {
		return string(r[:8])
	}
	return id
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"color":   func(p entities.Priority) template.CSS { return template.CSS(PriorityColor(p)) },
	"upper":   func(p entities.Priority) string { return strings.ToUpper(string(p)) },
	"shortID": shortID,
}).Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h1 style="color: #667eea;">📋 Meeting Summary</h1>

    <div style="background: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h2>Executive Summary</h2>
        <p>{{.Analysis.ExecutiveSummary}}</p>
    </div>

    <h2>🎯 Action Items</h2>
    <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <thead>
            <tr style="background: #667eea; color: white;">
                <th style="padding: 10px; text-align: left;">Task</th>
                <th style="padding: 10px; text-align: left;">Owner</th>
                <th style="padding: 10px; text-align: left;">Priority</th>
                <th style="padding: 10px; text-align: left;">Due Date</th>
            </tr>
        </thead>
        <tbody>
{{- range .Analysis.ActionItems}}
            <tr>
                <td style="padding: 10px; border: 1px solid #ddd;">{{.Task}}</td>
                <td style="padding: 10px; border: 1px solid #ddd;">{{.Owner}}</td>
                <td style="padding: 10px; border: 1px solid #ddd; color: {{color .Priority}}; font-weight: bold;">{{upper .Priority}}</td>
                <td style="padding: 10px; border: 1px solid #ddd;">{{.DueDate}}</td>
            </tr>
{{- end}}
        </tbody>
    </table>

    <h2>✅ Decisions Made</h2>
    <ul>
{{- range .Analysis.DecisionsMade}}
        <li>{{.}}</li>
{{- end}}
    </ul>

    <h2>📌 Key Topics Discussed</h2>
    <ul>
{{- range .Analysis.KeyTopics}}
        <li>{{.}}</li>
{{- end}}
    </ul>

    <h2>➡️ Next Steps</h2>
    <ul>
{{- range .Analysis.NextSteps}}
        <li>{{.}}</li>
{{- end}}
    </ul>

    <div style="margin-top: 30px; padding: 20px; background: #edf2f7; border-radius: 8px;">
        <p style="margin: 0; font-size: 12px; color: #666;">
            Generated by AI Meeting Intelligence • Meeting ID: {{shortID .MeetingID}}
        </p>
    </div>
</body>
</html>
`))
