package comment

import (
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/glueops/pull-request-bot/internal/commits"
	"github.com/glueops/pull-request-bot/internal/links"
)

const (
	header = "|  Name | Link |\n|---------------------------------|------------------------|"

	rowTemplate = "\n|<span aria-hidden=\"true\">{{emoji}}</span>  {{label}} |  {{value}} |"

	qrCodeURLPrefix = "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="

	markerPrefix = "<!-- pull-request-bot:sha="
	markerSuffix = " -->"
)

var row = fasttemplate.New(rowTemplate, "{{", "}}")

// Marker returns the hidden HTML comment that identifies the comment rendered
// for the commit with the given SHA.
func Marker(sha string) string {
	return markerPrefix + sha + markerSuffix
}

// Render returns the markdown body of the pull request comment for rec. Rows
// for empty links are left out. The output depends only on its inputs.
func Render(rec *commits.Record, l links.Links) string {
	preview := rec.PreviewURL()

	b := &strings.Builder{}
	b.WriteString(header)
	writeRow(b, "🔨", "Latest commit", rec.SHA)
	if l.ArgoCD != "" {
		writeRow(b, "🦄", "Deployment Details", markdownLink("ArgoCD", l.ArgoCD))
	}
	if preview != "" {
		writeRow(b, "🖥️", "Deployment Preview", markdownLink(preview, preview))
	}
	if l.Metrics != "" {
		writeRow(b, "📊", "Metrics", markdownLink("Grafana", l.Metrics))
	}
	if l.Logs != "" {
		writeRow(b, "📜", "Logs", markdownLink("Loki", l.Logs))
	}
	if preview != "" {
		writeRow(
			b,
			"📱",
			"Preview on mobile",
			fmt.Sprintf(`<img src="%s%s">`, qrCodeURLPrefix, preview),
		)
	}
	b.WriteString("\n\n")
	b.WriteString(Marker(rec.SHA))
	return b.String()
}

func writeRow(b *strings.Builder, emoji, label, value string) {
	// Writes to a strings.Builder never fail.
	_, _ = row.Execute(b, map[string]any{
		"emoji": emoji,
		"label": label,
		"value": value,
	})
}

func markdownLink(text, target string) string {
	return "[" + text + "](" + target + ")"
}
