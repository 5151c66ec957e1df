package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/export"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
)

const (
	cableNeededPrefix = "Cable needed:"
	defaultCableType  = "Standard Cable"
	defaultLength     = "TBD"
)

// CableScheduleService resolves a diagram's connections into printable cable rows.
type CableScheduleService struct {
	repos *repository.Repositories
}

func NewCableScheduleService(repos *repository.Repositories) *CableScheduleService {
	return &CableScheduleService{repos: repos}
}

// Build returns one row per connection of the diagram, numbered in creation
// order. References that no longer resolve render as empty text.
func (s *CableScheduleService) Build(ctx context.Context, diagramID string) (*export.CableSchedule, error) {
	diagram, err := s.repos.Diagram.FindByID(ctx, diagramID)
	if err != nil {
		return nil, err
	}

	conns, err := s.repos.Connection.List(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	placed, err := s.repos.DiagramDevice.List(ctx, diagramID)
	if err != nil {
		return nil, err
	}

	placedByID := make(map[string]entity.DiagramDevice, len(placed))
	deviceIDs := make([]string, 0, len(placed))
	for _, dd := range placed {
		placedByID[dd.ID] = dd
		deviceIDs = append(deviceIDs, dd.DeviceID)
	}
	ioIDs := make([]string, 0, 2*len(conns))
	for _, c := range conns {
		ioIDs = append(ioIDs, c.SourceIOID, c.TargetIOID)
	}

	devices, err := s.repos.Device.FindByIDs(ctx, deviceIDs)
	if err != nil {
		return nil, err
	}
	ios, err := s.repos.DeviceIO.FindByIDs(ctx, ioIDs)
	if err != nil {
		return nil, err
	}

	deviceName := func(diagramDeviceID string) string {
		dd, ok := placedByID[diagramDeviceID]
		if !ok {
			return ""
		}
		d, ok := devices[dd.DeviceID]
		if !ok {
			return ""
		}
		return d.Brand + " " + d.Model
	}
	portName := func(ioID string) string {
		io, ok := ios[ioID]
		if !ok {
			return ""
		}
		return io.Port()
	}

	schedule := &export.CableSchedule{
		DiagramID:   diagram.ID,
		DiagramName: diagram.Name,
		Rows:        make([]export.CableRow, 0, len(conns)),
	}
	if diagram.ClientName != nil {
		schedule.ClientName = *diagram.ClientName
	}

	for i, c := range conns {
		n := i + 1
		schedule.Rows = append(schedule.Rows, export.CableRow{
			Number:      n,
			CableLabel:  valueOr(c.CableLabel, "Cable "+strconv.Itoa(n)),
			FromDevice:  deviceName(c.SourceDiagramDeviceID),
			FromPort:    portName(c.SourceIOID),
			ToDevice:    deviceName(c.TargetDiagramDeviceID),
			ToPort:      portName(c.TargetIOID),
			CableType:   cableType(c.Notes),
			CableLength: valueOr(c.CableLength, defaultLength),
			Notes:       valueOr(c.Notes, ""),
		})
	}
	return schedule, nil
}

// cableType extracts the cable type the editor records as "Cable needed: <type>".
func cableType(notes *string) string {
	if notes == nil || !strings.Contains(*notes, cableNeededPrefix) {
		return defaultCableType
	}
	return strings.TrimSpace(strings.Replace(*notes, cableNeededPrefix, "", 1))
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
