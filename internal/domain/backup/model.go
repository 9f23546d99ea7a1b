package backup

import (
	"bytes"
	"encoding/json"
	"time"

	"gymledger/internal/domain/activity"
	"gymledger/internal/domain/faults"
	"gymledger/internal/domain/member"
	"gymledger/internal/domain/payment"
)

// Version identifies the envelope format emitted by export.
const Version = "2.0"

// Metadata describes the dataset wrapped by an export envelope.
type Metadata struct {
	ExportDate      string `json:"exportDate"`
	Version         string `json:"version"`
	TotalPayments   int    `json:"totalPayments"`
	TotalMembers    int    `json:"totalMembers"`
	TotalActivities int    `json:"totalActivities"`
	TotalRevenue    int    `json:"totalRevenue"`
}

// Data carries the three record collections of a backup.
type Data struct {
	Payments   []payment.Payment   `json:"payments"`
	Members    []member.Record     `json:"members"`
	Activities []activity.Activity `json:"activities"`
}

// Envelope is the canonical backup file format. Exporters always emit this
// shape; importers additionally accept the flat legacy shape and a bare
// mixed array.
type Envelope struct {
	Metadata Metadata `json:"metadata"`
	Data     Data     `json:"data"`
}

// ToJSON serializes the envelope for download.
// POST: Returns indented JSON bytes of the envelope
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// NewEnvelope wraps coerced data in an envelope with filled metadata.
func NewEnvelope(data Data, totalRevenue int, now time.Time) Envelope {
	return Envelope{
		Metadata: Metadata{
			ExportDate:      now.Format(time.RFC3339),
			Version:         Version,
			TotalPayments:   len(data.Payments),
			TotalMembers:    len(data.Members),
			TotalActivities: len(data.Activities),
			TotalRevenue:    totalRevenue,
		},
		Data: data,
	}
}

// Skipped counts records dropped during decoding because they were not
// well-formed enough to attempt an import (payments with a null amount,
// members that fail to parse at all).
type Skipped struct {
	Payments int
	Members  int
}

// Total returns the number of skipped records across kinds.
func (s Skipped) Total() int { return s.Payments + s.Members }

// rawData is the element-wise form of Data used during decoding so a single
// malformed record cannot poison the rest of its collection.
type rawData struct {
	Payments   []json.RawMessage `json:"payments"`
	Members    []json.RawMessage `json:"members"`
	Activities []json.RawMessage `json:"activities"`
}

// Decode parses backup bytes in any of the three accepted shapes: the
// envelope format, the flat legacy format, or a bare mixed array whose
// element kinds are sniffed by field presence (amount -> payment,
// name -> member, activityType -> activity).
// POST: Returns the decoded collections plus counts of records dropped while
// decoding; a ValidationError when no records of any kind were found
func Decode(raw []byte) (Data, Skipped, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Data{}, Skipped{}, &faults.ValidationError{Field: "backup", Message: "backup file is empty"}
	}

	var rd rawData
	if trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return Data{}, Skipped{}, &faults.ValidationError{Field: "backup", Message: "backup file is not valid JSON"}
		}
		rd = sniffArray(elements)
	} else {
		var env struct {
			Data *rawData `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Data{}, Skipped{}, &faults.ValidationError{Field: "backup", Message: "backup file is not valid JSON"}
		}
		if env.Data != nil {
			rd = *env.Data
		} else if err := json.Unmarshal(trimmed, &rd); err != nil {
			return Data{}, Skipped{}, &faults.ValidationError{Field: "backup", Message: "backup file is not valid JSON"}
		}
	}

	var data Data
	var skipped Skipped

	for _, rawPayment := range rd.Payments {
		p, ok := decodePayment(rawPayment)
		if !ok {
			skipped.Payments++
			continue
		}
		data.Payments = append(data.Payments, p)
	}
	for _, rawMember := range rd.Members {
		var rec member.Record
		if err := json.Unmarshal(rawMember, &rec); err != nil {
			skipped.Members++
			continue
		}
		data.Members = append(data.Members, rec)
	}
	for _, rawActivity := range rd.Activities {
		var a activity.Activity
		if err := json.Unmarshal(rawActivity, &a); err != nil {
			// Activities are best-effort; drop without counting.
			continue
		}
		data.Activities = append(data.Activities, a)
	}

	if len(data.Payments)+len(data.Members)+len(data.Activities) == 0 && skipped.Total() == 0 {
		return Data{}, Skipped{}, &faults.ValidationError{Field: "backup", Message: "no importable records found"}
	}
	return data, skipped, nil
}

// sniffArray classifies elements of a bare mixed array by field presence.
// Elements matching none of the three kinds are ignored.
func sniffArray(elements []json.RawMessage) rawData {
	var rd rawData
	for _, el := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(el, &fields); err != nil {
			continue
		}
		switch {
		case hasField(fields, "amount"):
			rd.Payments = append(rd.Payments, el)
		case hasField(fields, "name"):
			rd.Members = append(rd.Members, el)
		case hasField(fields, "activityType"):
			rd.Activities = append(rd.Activities, el)
		}
	}
	return rd
}

// hasField reports whether a key is present with a non-null value.
func hasField(fields map[string]json.RawMessage, key string) bool {
	v, ok := fields[key]
	return ok && string(bytes.TrimSpace(v)) != "null"
}

// decodePayment parses a payment record, rejecting records whose amount is
// missing or null rather than defaulting it to zero.
func decodePayment(raw json.RawMessage) (payment.Payment, bool) {
	var probe struct {
		Amount *int `json:"amount"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Amount == nil {
		return payment.Payment{}, false
	}
	var p payment.Payment
	if err := json.Unmarshal(raw, &p); err != nil {
		return payment.Payment{}, false
	}
	return p, true
}

// CoerceForExport fills the gaps in a dataset so every exported record has a
// complete, non-null shape. Missing labels become "unknown"; enum fields are
// clamped through the same coercion the import path uses.
func CoerceForExport(data Data, now time.Time) Data {
	out := Data{
		Payments:   make([]payment.Payment, len(data.Payments)),
		Members:    make([]member.Record, len(data.Members)),
		Activities: make([]activity.Activity, len(data.Activities)),
	}
	for i, p := range data.Payments {
		p.Coerce()
		if p.SubscriptionType == "" {
			p.SubscriptionType = "unknown"
		}
		if p.Date == "" {
			p.Date = now.Format(time.RFC3339)
		}
		out.Payments[i] = p
	}
	for i, rec := range data.Members {
		m := member.FromRecord(rec)
		m.Coerce()
		out.Members[i] = m.ToRecord()
	}
	for i, a := range data.Activities {
		a.Coerce(now)
		if a.MemberName == "" {
			a.MemberName = "unknown"
		}
		out.Activities[i] = a
	}
	return out
}
