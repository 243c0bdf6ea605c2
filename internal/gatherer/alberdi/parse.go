package alberdi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"cotizaciones/internal/gatherer"
	"cotizaciones/internal/normalize"
)

// ParseError reports a payload that does not match the feed schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("alberdi payload: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, gatherer.ErrParse) match a ParseError.
func (e *ParseError) Is(target error) bool {
	return target == gatherer.ErrParse
}

// exchangeData is one quote line of the feed.
type exchangeData struct {
	Moneda string    `json:"moneda"`
	Img    string    `json:"img"`
	Compra textValue `json:"compra"`
	Venta  textValue `json:"venta"`
}

// textValue accepts a JSON string or number and keeps its text.
type textValue string

func (v *textValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = textValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*v = textValue(n.String())
	return nil
}

// ParsePayload decodes the feed message: an object keyed by remote branch
// code, each holding the branch's quote lines.
func ParsePayload(data []byte) (normalize.Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ParseError{Err: errors.New("expected a JSON object")}
	}

	var raw map[string][]exchangeData
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	payload := make(normalize.Payload, len(raw))
	for code, lines := range raw {
		records := make([]normalize.RawRecord, 0, len(lines))
		for _, l := range lines {
			records = append(records, normalize.RawRecord{
				Label:    l.Moneda,
				Icon:     l.Img,
				Purchase: string(l.Compra),
				Sale:     string(l.Venta),
			})
		}
		payload[code] = records
	}
	return payload, nil
}
