package entity

import "time"

// Device is a catalog entry, e.g. one model of audio mixer.
type Device struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Brand       string    `json:"brand" gorm:"size:100;not null"`
	Model       string    `json:"model" gorm:"size:100;not null"`
	Category    string    `json:"category" gorm:"size:50;not null"`
	ImageURL    *string   `json:"image_url" gorm:"size:500"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Device) TableName() string {
	return "devices"
}

// DeviceIO is one physical connector on a catalog device.
type DeviceIO struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	DeviceID      string    `json:"device_id" gorm:"size:36;not null;index"`
	Label         string    `json:"label" gorm:"size:100;not null"`
	ConnectorType string    `json:"connector_type" gorm:"size:50;not null"`
	Gender        string    `json:"gender" gorm:"size:20;not null"`
	Direction     string    `json:"direction" gorm:"size:20;not null"`
	SignalType    string    `json:"signal_type" gorm:"size:20;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (DeviceIO) TableName() string {
	return "device_ios"
}

// Port renders the connector the way cable schedules print it, e.g. "XLR 1 (XLR Female)".
func (io *DeviceIO) Port() string {
	return io.Label + " (" + io.ConnectorType + " " + io.Gender + ")"
}
