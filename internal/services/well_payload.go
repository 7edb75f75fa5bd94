package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Input is one decoded request field. Absent fields have Set == false; a field that
// could not be coerced to T carries the message in Invalid.
type Input[T any] struct {
	Set     bool
	Null    bool
	Value   T
	Invalid string
}

// WellPatch is a create or update request for a well, before validation.
type WellPatch struct {
	WellNumber       Input[string]
	Field            Input[string]
	Latitude         Input[decimalInput]
	Longitude        Input[decimalInput]
	Depth            Input[float64]
	Status           Input[string]
	CurrentPressure  Input[float64]
	MeasuredFlowRate Input[float64]
	Temperature      Input[float64]
}

// decimalInput keeps the literal text so digit counts can be checked exactly.
type decimalInput struct {
	Text  string
	Value float64
}

// DecodeWellPatch reads a JSON object; unknown and read-only keys are ignored.
func DecodeWellPatch(body []byte) (WellPatch, error) {
	raw := map[string]json.RawMessage{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return WellPatch{}, ErrBadRequest("JSON parse error - " + err.Error())
	}
	var patch WellPatch
	patch.WellNumber = stringInput(raw, "well_number")
	patch.Field = stringInput(raw, "field")
	patch.Latitude = decimalField(raw, "latitude")
	patch.Longitude = decimalField(raw, "longitude")
	patch.Depth = floatInput(raw, "depth")
	patch.Status = stringInput(raw, "status")
	patch.CurrentPressure = floatInput(raw, "current_pressure")
	patch.MeasuredFlowRate = floatInput(raw, "measured_flow_rate")
	patch.Temperature = floatInput(raw, "temperature")
	return patch, nil
}

func stringInput(raw map[string]json.RawMessage, key string) Input[string] {
	data, ok := raw[key]
	if !ok {
		return Input[string]{}
	}
	in := Input[string]{Set: true}
	if isNull(data) {
		in.Null = true
		return in
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		in.Invalid = "Not a valid string."
		return in
	}
	switch v := value.(type) {
	case string:
		in.Value = strings.TrimSpace(v)
	case float64:
		in.Value = strings.TrimSpace(string(data))
	default:
		in.Invalid = "Not a valid string."
	}
	return in
}

func floatInput(raw map[string]json.RawMessage, key string) Input[float64] {
	text, in := numberText(raw, key)
	if !in.Set || in.Null || in.Invalid != "" {
		return Input[float64]{Set: in.Set, Null: in.Null, Invalid: in.Invalid}
	}
	value, err := parseFinite(text)
	if err != nil {
		return Input[float64]{Set: true, Invalid: "A valid number is required."}
	}
	return Input[float64]{Set: true, Value: value}
}

func decimalField(raw map[string]json.RawMessage, key string) Input[decimalInput] {
	text, in := numberText(raw, key)
	if !in.Set || in.Null || in.Invalid != "" {
		return Input[decimalInput]{Set: in.Set, Null: in.Null, Invalid: in.Invalid}
	}
	value, err := parseFinite(text)
	if err != nil {
		return Input[decimalInput]{Set: true, Invalid: "A valid number is required."}
	}
	if strings.ContainsAny(text, "eE") {
		text = strconv.FormatFloat(value, 'f', -1, 64)
	}
	return Input[decimalInput]{Set: true, Value: decimalInput{Text: text, Value: value}}
}

// numberText accepts JSON numbers and numeric strings.
func numberText(raw map[string]json.RawMessage, key string) (string, Input[struct{}]) {
	data, ok := raw[key]
	if !ok {
		return "", Input[struct{}]{}
	}
	if isNull(data) {
		return "", Input[struct{}]{Set: true, Null: true}
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		return number.String(), Input[struct{}]{Set: true}
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", Input[struct{}]{Set: true, Invalid: "A valid number is required."}
		}
		return text, Input[struct{}]{Set: true}
	}
	return "", Input[struct{}]{Set: true, Invalid: "A valid number is required."}
}

func parseFinite(text string) (float64, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

func isNull(data json.RawMessage) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
