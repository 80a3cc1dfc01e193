package ml

import (
	"encoding/json"
	"fmt"
	"time"
)

// Feature order of the price model.
const (
	FeatureCustomer = iota
	FeatureRegion
	FeatureItem
	FeatureQuantity

	NumFeatures
)

// Bundle pairs a trained price model with the exact encoders used to build
// its training matrix. Bundles are never modified after training; a retrain
// produces a new one.
type Bundle struct {
	Model           *LinearModel `json:"model"`
	CustomerEncoder *Encoder     `json:"customer_encoder"`
	RegionEncoder   *Encoder     `json:"region_encoder"`
	ItemEncoder     *Encoder     `json:"item_encoder"`
	TrainedAt       time.Time    `json:"trained_at"`
	TrainingRows    int          `json:"training_rows"`
}

// Encoding is the feature vector for one record plus which categorical
// features fell back to the sentinel code.
type Encoding struct {
	Features []float64
	Fallback Fallback
}

// Fallback flags, per feature, that a label was unseen at training time.
type Fallback struct {
	Customer bool `json:"customer"`
	Region   bool `json:"region"`
	Item     bool `json:"item"`
}

// Any reports whether at least one feature fell back.
func (f Fallback) Any() bool {
	return f.Customer || f.Region || f.Item
}

// Encode builds the feature vector [customer, region, item, quantity].
func (b *Bundle) Encode(customer, region, item string, quantity int) Encoding {
	var enc Encoding
	enc.Features = make([]float64, NumFeatures)

	code, ok := b.CustomerEncoder.Lookup(customer)
	enc.Features[FeatureCustomer], enc.Fallback.Customer = sentinelIfMissing(code, ok)

	code, ok = b.RegionEncoder.Lookup(region)
	enc.Features[FeatureRegion], enc.Fallback.Region = sentinelIfMissing(code, ok)

	code, ok = b.ItemEncoder.Lookup(item)
	enc.Features[FeatureItem], enc.Fallback.Item = sentinelIfMissing(code, ok)

	enc.Features[FeatureQuantity] = float64(quantity)
	return enc
}

func sentinelIfMissing(code int, ok bool) (float64, bool) {
	if !ok {
		return SentinelCode, true
	}
	return float64(code), false
}

// Predict encodes and applies the model in one step.
func (b *Bundle) Predict(customer, region, item string, quantity int) (float64, Fallback) {
	enc := b.Encode(customer, region, item, quantity)
	return b.Model.Predict(enc.Features), enc.Fallback
}

// Validate checks that all members are present and dimensions agree.
func (b *Bundle) Validate() error {
	switch {
	case b == nil:
		return fmt.Errorf("%w: nil bundle", ErrInvalidBundle)
	case b.Model == nil:
		return fmt.Errorf("%w: model missing", ErrInvalidBundle)
	case b.CustomerEncoder == nil:
		return fmt.Errorf("%w: customer encoder missing", ErrInvalidBundle)
	case b.RegionEncoder == nil:
		return fmt.Errorf("%w: region encoder missing", ErrInvalidBundle)
	case b.ItemEncoder == nil:
		return fmt.Errorf("%w: item encoder missing", ErrInvalidBundle)
	case b.TrainedAt.IsZero():
		return fmt.Errorf("%w: trained_at missing", ErrInvalidBundle)
	}

	for name, enc := range map[string]*Encoder{
		"customer": b.CustomerEncoder,
		"region":   b.RegionEncoder,
		"item":     b.ItemEncoder,
	} {
		if enc.Len() == 0 {
			return fmt.Errorf("%w: %s encoder is empty", ErrInvalidBundle, name)
		}
	}

	return b.Model.validate(NumFeatures)
}

// MarshalBundle serializes a validated bundle.
func MarshalBundle(b *Bundle) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b)
}

// UnmarshalBundle decodes and validates a persisted bundle.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
