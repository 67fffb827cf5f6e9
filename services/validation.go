package services

import (
	"errors"
	"maps"
	"math"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

// nonNegativeNumber rejects NaN, infinities and negative values. Nil pointers pass.
var nonNegativeNumber = validation.By(func(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return errors.New("must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("must be a finite number")
	}
	if f < 0 {
		return errors.New("must not be negative")
	}
	return nil
})

// fraction accepts finite values in [0, 1].
var fraction = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	f, ok := v.(float64)
	if !ok {
		return errors.New("must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > 1 {
		return errors.New("must be between 0 and 1")
	}
	return nil
})

var knownCategory = validation.In(lo.Map(Categories, func(c Category, _ int) interface{} {
	return string(c)
})...).Error("must be a known category")

var knownStatus = validation.In(lo.Map(StatusOptions, func(s string, _ int) interface{} {
	return s
})...).Error("must be one of bid, awarded, lost, complete")

// LineItemInput is a line item as received from a form or JSON body.
type LineItemInput struct {
	MaterialID  string   `json:"materialId"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitPrice   float64  `json:"unitPrice"`
	LaborHours  float64  `json:"laborHours"`
	LaborRate   *float64 `json:"laborRate"`
}

// Validate checks the input at the request boundary.
func (in LineItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&in.Category, validation.Required, knownCategory),
		validation.Field(&in.Quantity, nonNegativeNumber),
		validation.Field(&in.Unit, validation.Length(0, 20)),
		validation.Field(&in.UnitPrice, nonNegativeNumber),
		validation.Field(&in.LaborHours, nonNegativeNumber),
		validation.Field(&in.LaborRate, nonNegativeNumber),
	)
}

// Line converts validated input into rollup input.
func (in LineItemInput) Line() EstimateLine {
	return EstimateLine{
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		LaborHours: in.LaborHours,
		LaborRate:  in.LaborRate,
		Category:   Category(in.Category),
	}
}

// DraftItem converts validated input into an unsaved draft item.
func (in LineItemInput) DraftItem() DraftItem {
	return DraftItem{
		MaterialID:  in.MaterialID,
		Description: strings.TrimSpace(in.Description),
		Category:    Category(in.Category),
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		UnitPrice:   in.UnitPrice,
		LaborHours:  in.LaborHours,
		LaborRate:   in.LaborRate,
	}
}

// Patched returns a copy of the input with the patch applied, so a partial
// update can be validated as a whole item before it is stored.
func (in LineItemInput) Patched(p DraftItemPatch) LineItemInput {
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Category != nil {
		in.Category = string(*p.Category)
	}
	if p.Quantity != nil {
		in.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		in.Unit = *p.Unit
	}
	if p.UnitPrice != nil {
		in.UnitPrice = *p.UnitPrice
	}
	if p.LaborHours != nil {
		in.LaborHours = *p.LaborHours
	}
	switch {
	case p.ClearLaborRate:
		in.LaborRate = nil
	case p.LaborRate != nil:
		r := *p.LaborRate
		in.LaborRate = &r
	}
	return in
}

// InputFromLineItem converts a stored line item back into input form.
func InputFromLineItem(it LineItem) LineItemInput {
	return LineItemInput{
		MaterialID:  it.MaterialID,
		Description: it.Description,
		Category:    string(it.Category),
		Quantity:    it.Quantity,
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice,
		LaborHours:  it.LaborHours,
		LaborRate:   it.LaborRate,
	}
}

// Input converts a draft item into input form.
func (it DraftItem) Input() LineItemInput {
	return LineItemInput{
		MaterialID:  it.MaterialID,
		Description: it.Description,
		Category:    string(it.Category),
		Quantity:    it.Quantity,
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice,
		LaborHours:  it.LaborHours,
		LaborRate:   it.LaborRate,
	}
}

// RatesInput holds a project's labor rate and markup percentages.
type RatesInput struct {
	LaborRate   float64 `json:"laborRate"`
	OverheadPct float64 `json:"overheadPct"`
	ProfitPct   float64 `json:"profitPct"`
}

// Validate checks that the rate is non-negative and both percentages are fractions.
func (in RatesInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.LaborRate, nonNegativeNumber),
		validation.Field(&in.OverheadPct, fraction),
		validation.Field(&in.ProfitPct, fraction),
	)
}

// ProjectInput is the project form.
type ProjectInput struct {
	Name          string `json:"name"`
	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
	RatesInput
}

// Validate checks the project form.
func (in ProjectInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.ClientName, validation.Length(0, 200)),
		validation.Field(&in.Status, validation.Required, knownStatus),
	)
	return mergeErrors(err, in.RatesInput.Validate())
}

// EstimateRequest is the body of a stateless rollup request.
type EstimateRequest struct {
	RatesInput
	Items []LineItemInput `json:"items"`
}

// Validate checks the rates and every item.
func (in EstimateRequest) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Items),
	)
	return mergeErrors(in.RatesInput.Validate(), err)
}

// Totals runs the rollup over the request.
func (in EstimateRequest) Totals() EstimateTotals {
	lines := lo.Map(in.Items, func(it LineItemInput, _ int) EstimateLine { return it.Line() })
	return CalcEstimateTotals(lines, in.LaborRate, in.OverheadPct, in.ProfitPct)
}

// MaterialInput is a catalog material as entered or imported.
type MaterialInput struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Unit       string  `json:"unit"`
	UnitPrice  float64 `json:"unit_price"`
	LaborHours float64 `json:"labor_hours"`
}

// Validate checks the material fields.
func (in MaterialInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Category, validation.Required, knownCategory),
		validation.Field(&in.Unit, validation.Length(0, 20)),
		validation.Field(&in.UnitPrice, nonNegativeNumber),
		validation.Field(&in.LaborHours, nonNegativeNumber),
	)
}

// mergeErrors combines validation.Errors maps. Non-validation errors win.
func mergeErrors(errs ...error) error {
	merged := validation.Errors{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve validation.Errors
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve {
			merged[k] = v
		}
	}
	return merged.Filter()
}

// FieldErrors flattens a validation error into field -> message for the form
// templates. Nested item errors use "items.N.field" keys.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	flattenErrors("", err, out)
	return out
}

func flattenErrors(prefix string, err error, out map[string]string) {
	if err == nil {
		return
	}
	var ve validation.Errors
	if !errors.As(err, &ve) {
		key := prefix
		if key == "" {
			key = "_"
		}
		out[key] = err.Error()
		return
	}
	for _, k := range slices.Sorted(maps.Keys(ve)) {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		flattenErrors(name, ve[k], out)
	}
}
