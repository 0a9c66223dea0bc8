package engine

import "github.com/pankaj-dahiya-devops/redisguard/internal/models"

// Buckets accumulates findings per severity for one audit invocation.
// A Buckets value must never be shared between invocations; create one with
// NewBuckets for every audit.
type Buckets struct {
	bySeverity map[models.Severity][]models.Finding
}

// NewBuckets returns an empty bucket set.
func NewBuckets() *Buckets {
	return &Buckets{bySeverity: make(map[models.Severity][]models.Finding, len(models.Severities()))}
}

// Add appends f to the bucket of its severity. Findings with an unknown
// severity are dropped; the rule catalogue validation rejects them earlier.
func (b *Buckets) Add(f models.Finding) {
	if !f.Severity.Valid() {
		return
	}
	b.bySeverity[f.Severity] = append(b.bySeverity[f.Severity], f)
}

// Len returns the total number of findings across all buckets.
func (b *Buckets) Len() int {
	n := 0
	for _, fs := range b.bySeverity {
		n += len(fs)
	}
	return n
}

// Count returns the number of findings with severity sev.
func (b *Buckets) Count(sev models.Severity) int {
	return len(b.bySeverity[sev])
}

// Groups renders the non-empty buckets in CRITICAL, HIGH, WARNING order.
// Messages keep the order in which findings were added.
func (b *Buckets) Groups() []models.SeverityGroup {
	groups := make([]models.SeverityGroup, 0, len(b.bySeverity))
	for _, sev := range models.Severities() {
		fs := b.bySeverity[sev]
		if len(fs) == 0 {
			continue
		}
		msgs := make([]string, len(fs))
		for i, f := range fs {
			msgs[i] = f.Message
		}
		groups = append(groups, models.SeverityGroup{Severity: sev, Messages: msgs})
	}
	return groups
}

// Findings returns every finding ordered by severity, then insertion order.
func (b *Buckets) Findings() []models.Finding {
	out := make([]models.Finding, 0, b.Len())
	for _, sev := range models.Severities() {
		out = append(out, b.bySeverity[sev]...)
	}
	return out
}

// Counts returns the number of findings per severity. Every known severity
// is present in the map, with zero for empty buckets.
func (b *Buckets) Counts() map[models.Severity]int {
	counts := make(map[models.Severity]int, len(models.Severities()))
	for _, sev := range models.Severities() {
		counts[sev] = len(b.bySeverity[sev])
	}
	return counts
}
