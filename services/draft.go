package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DraftFormatVersion is written into every serialized draft. Decoding rejects
// any other value.
const DraftFormatVersion = 1

var (
	// ErrDraftItemNotFound is returned when a temp id does not match any draft item.
	ErrDraftItemNotFound = errors.New("draft item not found")
	// ErrInvalidDraft is returned when a serialized draft cannot be decoded.
	ErrInvalidDraft = errors.New("invalid draft")
)

// DraftItem is an unsaved line item. It is identified by a temporary id until
// the draft is committed.
type DraftItem struct {
	TempID      string   `json:"tempId"`
	MaterialID  string   `json:"materialId,omitempty"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitPrice   float64  `json:"unitPrice"`
	LaborHours  float64  `json:"laborHours"`
	LaborRate   *float64 `json:"laborRate"`
	SortOrder   int      `json:"sortOrder"`
}

// Line returns the rollup input for the item.
func (it DraftItem) Line() EstimateLine {
	return EstimateLine{
		Quantity:   it.Quantity,
		UnitPrice:  it.UnitPrice,
		LaborHours: it.LaborHours,
		LaborRate:  it.LaborRate,
		Category:   it.Category,
		SortOrder:  it.SortOrder,
	}
}

// DraftItemPatch holds the fields to change on a draft item. Nil fields are
// left untouched. ClearLaborRate resets the item to inherit the draft rate.
type DraftItemPatch struct {
	Description    *string
	Category       *Category
	Quantity       *float64
	Unit           *string
	UnitPrice      *float64
	LaborHours     *float64
	LaborRate      *float64
	ClearLaborRate bool
}

// Draft is an estimate being assembled before it is saved as a project.
type Draft struct {
	Name          string      `json:"name"`
	ClientName    string      `json:"clientName"`
	ClientAddress string      `json:"clientAddress"`
	LaborRate     float64     `json:"laborRate"`
	OverheadPct   float64     `json:"overheadPct"`
	ProfitPct     float64     `json:"profitPct"`
	Items         []DraftItem `json:"items"`
}

// NewDraft returns an empty draft using the given default rates.
func NewDraft(laborRate, overheadPct, profitPct float64) *Draft {
	return &Draft{
		LaborRate:   laborRate,
		OverheadPct: overheadPct,
		ProfitPct:   profitPct,
		Items:       []DraftItem{},
	}
}

// Add appends an item with a fresh temp id at the end of the draft and
// returns the stored copy.
func (d *Draft) Add(item DraftItem) DraftItem {
	item.TempID = uuid.NewString()
	item.SortOrder = d.nextSortOrder()
	d.Items = append(d.Items, item)
	return item
}

func (d *Draft) nextSortOrder() int {
	if len(d.Items) == 0 {
		return 1
	}
	return lo.Max(lo.Map(d.Items, func(it DraftItem, _ int) int { return it.SortOrder })) + 1
}

// Item returns the draft item with the given temp id.
func (d *Draft) Item(tempID string) (DraftItem, error) {
	item, ok := lo.Find(d.Items, func(it DraftItem) bool { return it.TempID == tempID })
	if !ok {
		return DraftItem{}, fmt.Errorf("%w: %s", ErrDraftItemNotFound, tempID)
	}
	return item, nil
}

// Update merges the patch into the item with the given temp id.
func (d *Draft) Update(tempID string, patch DraftItemPatch) (DraftItem, error) {
	_, idx, ok := lo.FindIndexOf(d.Items, func(it DraftItem) bool { return it.TempID == tempID })
	if !ok {
		return DraftItem{}, fmt.Errorf("%w: %s", ErrDraftItemNotFound, tempID)
	}

	it := &d.Items[idx]
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Category != nil {
		it.Category = *patch.Category
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		it.Unit = *patch.Unit
	}
	if patch.UnitPrice != nil {
		it.UnitPrice = *patch.UnitPrice
	}
	if patch.LaborHours != nil {
		it.LaborHours = *patch.LaborHours
	}
	switch {
	case patch.ClearLaborRate:
		it.LaborRate = nil
	case patch.LaborRate != nil:
		r := *patch.LaborRate
		it.LaborRate = &r
	}
	return *it, nil
}

// Remove deletes the item with the given temp id.
func (d *Draft) Remove(tempID string) error {
	_, idx, ok := lo.FindIndexOf(d.Items, func(it DraftItem) bool { return it.TempID == tempID })
	if !ok {
		return fmt.Errorf("%w: %s", ErrDraftItemNotFound, tempID)
	}
	d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
	return nil
}

// Lines returns the rollup input for every draft item.
func (d *Draft) Lines() []EstimateLine {
	return lo.Map(d.Items, func(it DraftItem, _ int) EstimateLine { return it.Line() })
}

// Totals runs the rollup over the draft with its own rates.
func (d *Draft) Totals() EstimateTotals {
	return CalcEstimateTotals(d.Lines(), d.LaborRate, d.OverheadPct, d.ProfitPct)
}

// Estimate returns the draft as an unsaved project snapshot.
func (d *Draft) Estimate() ProjectEstimate {
	return ProjectEstimate{
		Name:          d.Name,
		ClientName:    d.ClientName,
		ClientAddress: d.ClientAddress,
		Status:        "bid",
		LaborRate:     d.LaborRate,
		OverheadPct:   d.OverheadPct,
		ProfitPct:     d.ProfitPct,
		Items: lo.Map(d.Items, func(it DraftItem, _ int) LineItem {
			return LineItem{
				ID:           it.TempID,
				MaterialID:   it.MaterialID,
				Description:  it.Description,
				Unit:         it.Unit,
				EstimateLine: it.Line(),
			}
		}),
	}
}

type draftEnvelope struct {
	Version   int    `json:"version"`
	UpdatedAt string `json:"updatedAt"`
	Draft     *Draft `json:"draft"`
}

// EncodeDraft writes the draft as versioned JSON.
func EncodeDraft(w io.Writer, d *Draft) error {
	env := draftEnvelope{
		Version:   DraftFormatVersion,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Draft:     d,
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return nil
}

// DecodeDraft reads a draft written by EncodeDraft.
func DecodeDraft(r io.Reader) (*Draft, error) {
	var env draftEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if env.Version != DraftFormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidDraft, env.Version)
	}
	if env.Draft == nil {
		return nil, fmt.Errorf("%w: missing draft body", ErrInvalidDraft)
	}
	if env.Draft.Items == nil {
		env.Draft.Items = []DraftItem{}
	}
	for _, it := range env.Draft.Items {
		if it.TempID == "" {
			return nil, fmt.Errorf("%w: item without temp id", ErrInvalidDraft)
		}
	}
	return env.Draft, nil
}
