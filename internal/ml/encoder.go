package ml

import (
	"encoding/json"
	"fmt"
	"slices"
)

// SentinelCode is returned for labels that were not seen when the encoder was fit.
const SentinelCode = 0

// Encoder maps categorical labels to dense integer codes.
// Codes follow the lexicographic order of the distinct labels it was fit on.
// An Encoder is immutable once built.
type Encoder struct {
	classes []string
	index   map[string]int
}

// FitEncoder collects the distinct labels, sorts them and assigns codes 0..n-1.
func FitEncoder(labels []string) *Encoder {
	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	return newEncoder(classes)
}

func newEncoder(classes []string) *Encoder {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &Encoder{classes: classes, index: index}
}

// Lookup returns the code for label and whether the label was seen during fit.
func (e *Encoder) Lookup(label string) (int, bool) {
	code, ok := e.index[label]
	return code, ok
}

// Encode returns the code for label, or SentinelCode if it was never seen.
func (e *Encoder) Encode(label string) int {
	if code, ok := e.index[label]; ok {
		return code
	}
	return SentinelCode
}

// Len is the number of distinct labels.
func (e *Encoder) Len() int {
	return len(e.classes)
}

// Classes returns a copy of the labels in code order.
func (e *Encoder) Classes() []string {
	return slices.Clone(e.classes)
}

type encoderJSON struct {
	Classes []string `json:"classes"`
}

func (e *Encoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(encoderJSON{Classes: e.classes})
}

// UnmarshalJSON rejects class lists that are not strictly increasing, since
// codes would otherwise disagree with the ones used at training time.
func (e *Encoder) UnmarshalJSON(data []byte) error {
	var raw encoderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := 1; i < len(raw.Classes); i++ {
		if raw.Classes[i-1] >= raw.Classes[i] {
			return fmt.Errorf("%w: encoder classes not sorted and unique at %d", ErrInvalidBundle, i)
		}
	}
	*e = *newEncoder(raw.Classes)
	return nil
}
