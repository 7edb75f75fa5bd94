package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"wellhub-backend-go/internal/db"
	"wellhub-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const (
	maxWellText       = 100
	coordinateDigits  = 9
	coordinatePlaces  = 6
	duplicateWellText = "well with this well number already exists."
)

const wellColumns = `id, well_number, field, latitude, longitude, depth, status,
current_pressure, measured_flow_rate, temperature, last_data_update`

func ListWells(ctx context.Context, conn *sqlx.DB) ([]models.Well, error) {
	wells := []models.Well{}
	if err := conn.SelectContext(ctx, &wells, `SELECT `+wellColumns+` FROM wells ORDER BY well_number ASC`); err != nil {
		return nil, WrapError(err, "list wells")
	}
	return wells, nil
}

func CountWells(ctx context.Context, conn *sqlx.DB) (int, error) {
	var count int
	err := conn.GetContext(ctx, &count, `SELECT count(*) FROM wells`)
	return count, WrapError(err, "count wells")
}

func GetWell(ctx context.Context, conn *sqlx.DB, id int64) (models.Well, error) {
	var well models.Well
	err := conn.GetContext(ctx, &well, conn.Rebind(`SELECT `+wellColumns+` FROM wells WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Well{}, ErrNotFound("Not found.")
	}
	if err != nil {
		return models.Well{}, WrapError(err, "get well")
	}
	return well, nil
}

func CreateWell(ctx context.Context, conn *sqlx.DB, patch WellPatch) (models.Well, error) {
	well := models.Well{Status: models.WellActive}
	if err := patch.applyTo(&well, false); err != nil {
		return models.Well{}, err
	}
	if err := ensureWellNumberFree(ctx, conn, well.WellNumber, 0); err != nil {
		return models.Well{}, err
	}
	well.LastDataUpdate = stamp(time.Time{})
	err := conn.QueryRowxContext(ctx, conn.Rebind(`
INSERT INTO wells (well_number, field, latitude, longitude, depth, status,
                   current_pressure, measured_flow_rate, temperature, last_data_update)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`), well.WellNumber, well.Field, well.Latitude, well.Longitude, well.Depth, well.Status,
		well.CurrentPressure, well.MeasuredFlowRate, well.Temperature, well.LastDataUpdate).Scan(&well.ID)
	if db.IsUniqueViolation(err) {
		return models.Well{}, fieldError("well_number", duplicateWellText)
	}
	if err != nil {
		return models.Well{}, WrapError(err, "insert well")
	}
	return well, nil
}

// UpdateWell applies patch to the stored well. With partial == false every required
// field must be present. last_data_update is refreshed on every successful call.
func UpdateWell(ctx context.Context, conn *sqlx.DB, id int64, patch WellPatch, partial bool) (models.Well, error) {
	well, err := GetWell(ctx, conn, id)
	if err != nil {
		return models.Well{}, err
	}
	if err := patch.applyTo(&well, partial); err != nil {
		return models.Well{}, err
	}
	if err := ensureWellNumberFree(ctx, conn, well.WellNumber, id); err != nil {
		return models.Well{}, err
	}
	well.LastDataUpdate = stamp(well.LastDataUpdate)
	res, err := conn.ExecContext(ctx, conn.Rebind(`
UPDATE wells
SET well_number = ?, field = ?, latitude = ?, longitude = ?, depth = ?, status = ?,
    current_pressure = ?, measured_flow_rate = ?, temperature = ?, last_data_update = ?
WHERE id = ?
`), well.WellNumber, well.Field, well.Latitude, well.Longitude, well.Depth, well.Status,
		well.CurrentPressure, well.MeasuredFlowRate, well.Temperature, well.LastDataUpdate, id)
	if db.IsUniqueViolation(err) {
		return models.Well{}, fieldError("well_number", duplicateWellText)
	}
	if err != nil {
		return models.Well{}, WrapError(err, "update well")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Well{}, ErrNotFound("Not found.")
	}
	return well, nil
}

func DeleteWell(ctx context.Context, conn *sqlx.DB, id int64) error {
	res, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM wells WHERE id = ?`), id)
	if err != nil {
		return WrapError(err, "delete well")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound("Not found.")
	}
	return nil
}

func ensureWellNumberFree(ctx context.Context, conn *sqlx.DB, number string, exceptID int64) error {
	var exists bool
	err := conn.GetContext(ctx, &exists, conn.Rebind(`SELECT EXISTS(SELECT 1 FROM wells WHERE well_number = ? AND id <> ?)`), number, exceptID)
	if err != nil {
		return WrapError(err, "check well number")
	}
	if exists {
		return fieldError("well_number", duplicateWellText)
	}
	return nil
}

// stamp returns the current time, never earlier than previous.
func stamp(previous time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if now.Before(previous) {
		return previous
	}
	return now
}

func (p WellPatch) applyTo(well *models.Well, partial bool) error {
	errs := FieldErrors{}
	if value, ok := requiredText(errs, "well_number", p.WellNumber, partial); ok {
		well.WellNumber = value
	}
	if value, ok := requiredText(errs, "field", p.Field, partial); ok {
		well.Field = value
	}
	if value, ok := requiredCoordinate(errs, "latitude", p.Latitude, partial); ok {
		well.Latitude = value
	}
	if value, ok := requiredCoordinate(errs, "longitude", p.Longitude, partial); ok {
		well.Longitude = value
	}
	if value, ok := requiredNumber(errs, "depth", p.Depth, partial); ok {
		well.Depth = value
	}
	if p.Status.Set {
		switch {
		case p.Status.Null:
			errs.Add("status", "This field may not be null.")
		case p.Status.Invalid != "":
			errs.Add("status", p.Status.Invalid)
		case !models.WellStatus(p.Status.Value).Valid():
			errs.Add("status", fmt.Sprintf("%q is not a valid choice.", p.Status.Value))
		default:
			well.Status = models.WellStatus(p.Status.Value)
		}
	}
	optionalNumber(errs, "current_pressure", p.CurrentPressure, &well.CurrentPressure)
	optionalNumber(errs, "measured_flow_rate", p.MeasuredFlowRate, &well.MeasuredFlowRate)
	optionalNumber(errs, "temperature", p.Temperature, &well.Temperature)
	return errs.Err()
}

// requiredCheck reports whether in carries a usable value, recording why not otherwise.
func requiredCheck[T any](errs FieldErrors, field string, in Input[T], partial bool) bool {
	switch {
	case !in.Set:
		if !partial {
			errs.Add(field, "This field is required.")
		}
		return false
	case in.Null:
		errs.Add(field, "This field may not be null.")
		return false
	case in.Invalid != "":
		errs.Add(field, in.Invalid)
		return false
	}
	return true
}

func requiredText(errs FieldErrors, field string, in Input[string], partial bool) (string, bool) {
	if !requiredCheck(errs, field, in, partial) {
		return "", false
	}
	if in.Value == "" {
		errs.Add(field, "This field may not be blank.")
		return "", false
	}
	if len([]rune(in.Value)) > maxWellText {
		errs.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxWellText))
		return "", false
	}
	return in.Value, true
}

func requiredNumber(errs FieldErrors, field string, in Input[float64], partial bool) (float64, bool) {
	if !requiredCheck(errs, field, in, partial) {
		return 0, false
	}
	return in.Value, true
}

func requiredCoordinate(errs FieldErrors, field string, in Input[decimalInput], partial bool) (float64, bool) {
	if !requiredCheck(errs, field, in, partial) {
		return 0, false
	}
	if msg := checkDecimal(in.Value.Text, coordinateDigits, coordinatePlaces); msg != "" {
		errs.Add(field, msg)
		return 0, false
	}
	scale := math.Pow10(coordinatePlaces)
	return math.Round(in.Value.Value*scale) / scale, true
}

func optionalNumber(errs FieldErrors, field string, in Input[float64], target **float64) {
	switch {
	case !in.Set:
	case in.Null:
		*target = nil
	case in.Invalid != "":
		errs.Add(field, in.Invalid)
	default:
		value := in.Value
		*target = &value
	}
}

// checkDecimal enforces a DECIMAL(maxDigits, places) column on the literal text.
func checkDecimal(text string, maxDigits, places int) string {
	text = strings.TrimLeft(text, "+-")
	whole, frac, _ := strings.Cut(text, ".")
	whole = strings.TrimLeft(whole, "0")
	switch {
	case len(whole)+len(frac) > maxDigits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits)
	case len(frac) > places:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", places)
	case len(whole) > maxDigits-places:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places)
	}
	return ""
}
