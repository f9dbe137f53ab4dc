package scheduleservice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayasato/gekkan/internal/master"
	"github.com/ayasato/gekkan/internal/schedule"
)

// dateLayout is the wire form of actual dates.
const dateLayout = "2006-01-02"

// issueDoc is the serialized form of one issue row. The schema is static:
// each process id maps to one typed entry, validated against the master
// tables on decode. Serialization lives only at this storage boundary; the
// in-memory representation is schedule.Issue.
type issueDoc struct {
	Year      int                    `json:"year"`
	Month     int                    `json:"month"`
	Processes map[string]instanceDoc `json:"processes"`
}

type instanceDoc struct {
	Planned string                 `json:"planned,omitempty"`
	Actual  string                 `json:"actual,omitempty"`
	Confirm *schedule.Confirmation `json:"confirm,omitempty"`
}

func encodeIssue(iss *schedule.Issue) ([]byte, error) {
	doc := issueDoc{
		Year:      iss.Year,
		Month:     iss.Month,
		Processes: make(map[string]instanceDoc, len(iss.Processes)),
	}
	for id, inst := range iss.Processes {
		var d instanceDoc
		if inst.Planned != nil && !inst.Planned.IsZero() {
			d.Planned = inst.Planned.String()
		}
		if inst.Actual != nil {
			d.Actual = inst.Actual.Format(dateLayout)
		}
		d.Confirm = inst.Confirm
		doc.Processes[id] = d
	}
	return json.Marshal(doc)
}

// decodeIssue rebuilds an issue from its stored document. Every process the
// master defines gets an instance (empty when the document has no entry, so
// processes added to the master later surface on existing issues). Document
// entries for ids the master no longer knows are logged and dropped.
func decodeIssue(m *master.Master, data []byte, logger *slog.Logger) (*schedule.Issue, error) {
	var doc issueDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scheduleservice: decode issue doc: %w", err)
	}

	iss := &schedule.Issue{
		Year:      doc.Year,
		Month:     doc.Month,
		Processes: make(map[string]*schedule.Instance, len(m.Processes)),
	}

	for _, p := range m.Processes {
		iss.Processes[p.ID] = &schedule.Instance{Process: p.ID, Kind: p.Kind}
	}

	for id, d := range doc.Processes {
		inst, ok := iss.Processes[id]
		if !ok {
			logger.Warn("issue doc entry for unknown process, skipped", slog.String("process", id))
			continue
		}
		if d.Planned != "" {
			md, err := schedule.ParseMonthDay(d.Planned)
			if err != nil {
				logger.Warn("issue doc has bad planned date, skipped",
					slog.String("process", id), slog.String("planned", d.Planned))
			} else {
				inst.Planned = &md
			}
		}
		if d.Actual != "" {
			t, err := time.Parse(dateLayout, d.Actual)
			if err != nil {
				logger.Warn("issue doc has bad actual date, skipped",
					slog.String("process", id), slog.String("actual", d.Actual))
			} else {
				inst.Actual = &t
			}
		}
		if inst.Kind == schedule.KindConfirmation && d.Confirm != nil {
			inst.Confirm = d.Confirm
		}
	}

	return iss, nil
}
