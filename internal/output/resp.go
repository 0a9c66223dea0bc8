package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
)

// RenderRESP writes the severity groups the way redis-cli prints a nested
// array reply: one (label, messages) pair per non-empty severity, with each
// message quoted. An empty report renders as "(empty array)".
func RenderRESP(w io.Writer, groups []models.SeverityGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "(empty array)")
		return
	}

	outerWidth := len(strconv.Itoa(len(groups)))
	for i, g := range groups {
		prefix := fmt.Sprintf("%*d) ", outerWidth, i+1)
		pad := strings.Repeat(" ", len(prefix))

		fmt.Fprintf(w, "%s1) %s\n", prefix, g.Severity)

		if len(g.Messages) == 0 {
			fmt.Fprintf(w, "%s2) (empty array)\n", pad)
			continue
		}
		innerWidth := len(strconv.Itoa(len(g.Messages)))
		for j, msg := range g.Messages {
			lead := pad + "   "
			if j == 0 {
				lead = pad + "2) "
			}
			fmt.Fprintf(w, "%s%*d) %q\n", lead, innerWidth, j+1, msg)
		}
	}
}

// RenderRESPError writes err the way redis-cli prints an error reply.
func RenderRESPError(w io.Writer, err error) {
	fmt.Fprintf(w, "(error) %s\n", err)
}
