package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
)

const notANumber = "must be a number"

// formFloat parses an optional numeric form value. Blank text is reported as
// not present.
func formFloat(form url.Values, key string) (float64, bool, error) {
	s := strings.TrimSpace(form.Get(key))
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// addFieldErrors copies validation messages without replacing parse errors
// already recorded for the same field.
func addFieldErrors(dst map[string]string, err error) {
	for k, v := range services.FieldErrors(err) {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// lineItemFromForm reads the add item form. When material_id names a catalog
// material, blank fields are filled from it; the material's labor hours are
// per unit and are multiplied by the quantity.
func lineItemFromForm(app core.App, form url.Values) (services.LineItemInput, map[string]string) {
	errs := make(map[string]string)
	in := services.LineItemInput{
		MaterialID:  strings.TrimSpace(form.Get("material_id")),
		Description: strings.TrimSpace(form.Get("description")),
		Category:    strings.TrimSpace(form.Get("category")),
		Unit:        strings.TrimSpace(form.Get("unit")),
	}

	qty, _, err := formFloat(form, "quantity")
	if err != nil {
		errs["quantity"] = notANumber
	}
	in.Quantity = qty

	price, hasPrice, err := formFloat(form, "unit_price")
	if err != nil {
		errs["unitPrice"] = notANumber
	}
	in.UnitPrice = price

	hours, hasHours, err := formFloat(form, "labor_hours")
	if err != nil {
		errs["laborHours"] = notANumber
	}
	in.LaborHours = hours

	if r, ok, err := formFloat(form, "labor_rate"); err != nil {
		errs["laborRate"] = notANumber
	} else if ok {
		in.LaborRate = &r
	}

	if in.MaterialID != "" {
		mat, err := app.FindRecordById("materials", in.MaterialID)
		if err != nil {
			errs["materialId"] = "material not found"
			return in, errs
		}
		if in.Description == "" {
			in.Description = mat.GetString("name")
		}
		if in.Category == "" {
			in.Category = mat.GetString("category")
		}
		if in.Unit == "" {
			in.Unit = mat.GetString("unit")
		}
		if !hasPrice {
			in.UnitPrice = mat.GetFloat("unit_price")
		}
		if !hasHours {
			in.LaborHours = mat.GetFloat("labor_hours") * in.Quantity
		}
	}

	addFieldErrors(errs, in.Validate())
	return in, errs
}

// patchFromForm reads only the fields present in an inline edit form. A blank
// labor_rate clears the item's own rate.
func patchFromForm(form url.Values) (services.DraftItemPatch, map[string]string) {
	var p services.DraftItemPatch
	errs := make(map[string]string)

	if form.Has("description") {
		s := strings.TrimSpace(form.Get("description"))
		p.Description = &s
	}
	if form.Has("category") {
		c := services.Category(form.Get("category"))
		p.Category = &c
	}
	if form.Has("unit") {
		s := strings.TrimSpace(form.Get("unit"))
		p.Unit = &s
	}

	numbers := []struct {
		formKey  string
		fieldKey string
		dst      **float64
	}{
		{"quantity", "quantity", &p.Quantity},
		{"unit_price", "unitPrice", &p.UnitPrice},
		{"labor_hours", "laborHours", &p.LaborHours},
	}
	for _, n := range numbers {
		if !form.Has(n.formKey) {
			continue
		}
		v, _, err := formFloat(form, n.formKey)
		if err != nil {
			errs[n.fieldKey] = notANumber
			continue
		}
		*n.dst = &v
	}

	if form.Has("labor_rate") {
		v, ok, err := formFloat(form, "labor_rate")
		switch {
		case err != nil:
			errs["laborRate"] = notANumber
		case !ok:
			p.ClearLaborRate = true
		default:
			p.LaborRate = &v
		}
	}
	return p, errs
}

// ratesFromForm reads a labor rate and the two markup fractions. Blank fields
// keep the values in current.
func ratesFromForm(form url.Values, keys [3]string, current services.RatesInput) (services.RatesInput, map[string]string) {
	errs := make(map[string]string)
	in := current
	targets := []struct {
		fieldKey string
		dst      *float64
	}{
		{"laborRate", &in.LaborRate},
		{"overheadPct", &in.OverheadPct},
		{"profitPct", &in.ProfitPct},
	}
	for i, t := range targets {
		v, ok, err := formFloat(form, keys[i])
		if err != nil {
			errs[t.fieldKey] = notANumber
			continue
		}
		if ok {
			*t.dst = v
		}
	}
	addFieldErrors(errs, in.Validate())
	return in, errs
}

var projectRateKeys = [3]string{"labor_rate", "overhead_pct", "profit_pct"}
var settingsRateKeys = [3]string{"default_labor_rate", "default_overhead_pct", "default_profit_pct"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
