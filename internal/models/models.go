package models

import "time"

type User struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLogin    *time.Time `db:"last_login"`
}

type WellStatus string

const (
	WellActive      WellStatus = "active"
	WellInactive    WellStatus = "inactive"
	WellMaintenance WellStatus = "maintenance"
	WellEmergency   WellStatus = "emergency"
)

var wellStatusLabels = map[WellStatus]string{
	WellActive:      "Active",
	WellInactive:    "Inactive",
	WellMaintenance: "Under maintenance",
	WellEmergency:   "Emergency",
}

func (s WellStatus) Valid() bool {
	_, ok := wellStatusLabels[s]
	return ok
}

// Label is the human readable status shown next to the raw value.
func (s WellStatus) Label() string {
	return wellStatusLabels[s]
}

type Well struct {
	ID               int64      `db:"id"`
	WellNumber       string     `db:"well_number"`
	Field            string     `db:"field"`
	Latitude         float64    `db:"latitude"`
	Longitude        float64    `db:"longitude"`
	Depth            float64    `db:"depth"`
	Status           WellStatus `db:"status"`
	CurrentPressure  *float64   `db:"current_pressure"`
	MeasuredFlowRate *float64   `db:"measured_flow_rate"`
	Temperature      *float64   `db:"temperature"`
	LastDataUpdate   time.Time  `db:"last_data_update"`
}
