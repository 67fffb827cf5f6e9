package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"bidestimator/config"
	"bidestimator/services"
)

const draftCookieName = "draft_session"

// draftSession returns the draft session id from the request cookie, or "".
func draftSession(r *http.Request) string {
	c, err := r.Cookie(draftCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ensureDraftSession returns the current draft session id, issuing a new
// cookie when the browser has none.
func ensureDraftSession(e *core.RequestEvent) string {
	if s := draftSession(e.Request); s != "" {
		return s
	}
	s := uuid.NewString()
	http.SetCookie(e.Response, &http.Cookie{
		Name:     draftCookieName,
		Value:    s,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// later reads in the same request see the new session
	e.Request.AddCookie(&http.Cookie{Name: draftCookieName, Value: s})
	return s
}

func findDraftRecord(app core.App, session string) (*core.Record, error) {
	return app.FindFirstRecordByData("estimate_drafts", "session", session)
}

// loadDraft decodes the stored draft for a session. A session without a
// stored draft gets a new one with the default rates.
func loadDraft(app core.App, session string, defaults services.EstimateDefaults) (*services.Draft, error) {
	fresh := services.NewDraft(defaults.LaborRate, defaults.OverheadPct, defaults.ProfitPct)
	if session == "" {
		return fresh, nil
	}
	rec, err := findDraftRecord(app, session)
	if errors.Is(err, sql.ErrNoRows) {
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft for session %s: %w", session, err)
	}
	raw, _ := rec.Get("payload").(types.JSONRaw)
	if len(raw) == 0 {
		return fresh, nil
	}
	d, err := services.DecodeDraft(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode draft for session %s: %w", session, err)
	}
	return d, nil
}

// saveDraft stores the draft for a session, creating the record on first save.
func saveDraft(app core.App, session string, d *services.Draft) error {
	var buf bytes.Buffer
	if err := services.EncodeDraft(&buf, d); err != nil {
		return err
	}

	rec, err := findDraftRecord(app, session)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		col, err := app.FindCollectionByNameOrId("estimate_drafts")
		if err != nil {
			return fmt.Errorf("estimate_drafts collection not found: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set("session", session)
	case err != nil:
		return fmt.Errorf("load draft for session %s: %w", session, err)
	}
	rec.Set("payload", types.JSONRaw(buf.Bytes()))

	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// deleteDraft removes the stored draft of a session, if any.
func deleteDraft(app core.App, session string) error {
	rec, err := findDraftRecord(app, session)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load draft for session %s: %w", session, err)
	}
	return app.Delete(rec)
}

// estimateDefaults reads the default rates from company settings, falling
// back to the environment configuration.
func estimateDefaults(app core.App, cfg *config.Config) services.EstimateDefaults {
	return services.LoadEstimateDefaults(app, services.EstimateDefaults{
		LaborRate:   cfg.Defaults.LaborRate,
		OverheadPct: cfg.Defaults.OverheadPct,
		ProfitPct:   cfg.Defaults.ProfitPct,
	})
}
