package entity

import "time"

// Diagram is one wiring project.
type Diagram struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	ClientName  *string   `json:"client_name" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Diagram) TableName() string {
	return "diagrams"
}

// DiagramDevice is a placed instance of a Device on a diagram canvas.
// The same Device may be placed any number of times.
type DiagramDevice struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	DiagramID string    `json:"diagram_id" gorm:"size:36;not null;index"`
	DeviceID  string    `json:"device_id" gorm:"size:36;not null;index"`
	PositionX float64   `json:"position_x" gorm:"not null"`
	PositionY float64   `json:"position_y" gorm:"not null"`
	Rotation  float64   `json:"rotation" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DiagramDevice) TableName() string {
	return "diagram_devices"
}

// Connection is a cable between a connector on one placed device and a
// connector on another. IO ownership of the endpoints is not checked.
type Connection struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:36"`
	DiagramID             string    `json:"diagram_id" gorm:"size:36;not null;index"`
	SourceDiagramDeviceID string    `json:"source_diagram_device_id" gorm:"size:36;not null"`
	SourceIOID            string    `json:"source_io_id" gorm:"column:source_io_id;size:36;not null"`
	TargetDiagramDeviceID string    `json:"target_diagram_device_id" gorm:"size:36;not null"`
	TargetIOID            string    `json:"target_io_id" gorm:"column:target_io_id;size:36;not null"`
	CableLabel            *string   `json:"cable_label" gorm:"size:100"`
	CableLength           *string   `json:"cable_length" gorm:"size:50"`
	Notes                 *string   `json:"notes" gorm:"type:text"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}
