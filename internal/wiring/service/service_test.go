package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
	"github.com/devprbtt/wiringmaster/internal/wiring/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedEvent struct {
	DiagramID, Entity, ID, Action string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishDiagramUpdate(diagramID, entityType, id, action string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{diagramID, entityType, id, action})
}

func setupServices(t *testing.T) (*Services, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc, err := NewServices(repository.NewRepositories(db), Deps{Files: store, Publisher: pub})
	require.NoError(t, err)
	return svc, db, pub
}

func str(s string) *string   { return &s }
func num(f float64) *float64 { return &f }

func decodeUpdate(t *testing.T, body string, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), dst))
}

func TestDeviceService_CreateAndGet(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	device, err := svc.Device.Create(ctx, &CreateDeviceInput{
		Brand:    str("Yamaha"),
		Model:    str("CL5"),
		Category: str("Mixer"),
	})
	require.NoError(t, err)
	assert.Len(t, device.ID, 36)
	assert.Equal(t, device.CreatedAt, device.UpdatedAt)
	assert.Nil(t, device.ImageURL)

	got, err := svc.Device.Get(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "CL5", got.Model)
	assert.True(t, device.CreatedAt.Equal(got.CreatedAt))
}

func TestDeviceService_CreateMissingField(t *testing.T) {
	svc, db, _ := setupServices(t)

	_, err := svc.Device.Create(context.Background(), &CreateDeviceInput{
		Brand: str("Yamaha"),
		Model: str("CL5"),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "category")
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Device{}, ""))
}

func TestDeviceService_UpdatePartial(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	seeded := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")

	var input UpdateDeviceInput
	decodeUpdate(t, `{"description":"Digital console"}`, &input)
	updated, err := svc.Device.Update(ctx, seeded.ID, &input)
	require.NoError(t, err)
	assert.Equal(t, "Yamaha", updated.Brand)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Digital console", *updated.Description)
	assert.True(t, seeded.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	var clear UpdateDeviceInput
	decodeUpdate(t, `{"description":null}`, &clear)
	cleared, err := svc.Device.Update(ctx, seeded.ID, &clear)
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
}

func TestDeviceService_UpdateNullRequired(t *testing.T) {
	svc, db, _ := setupServices(t)
	seeded := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")

	var input UpdateDeviceInput
	decodeUpdate(t, `{"brand":null}`, &input)
	_, err := svc.Device.Update(context.Background(), seeded.ID, &input)
	assert.True(t, IsValidation(err))

	got, err := svc.Device.Get(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yamaha", got.Brand)
}

func TestDeviceService_NotFound(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Device.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Device.Update(ctx, "missing", &UpdateDeviceInput{Brand: Of("X")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Device.Delete(ctx, "missing"), ErrNotFound)
}

func TestDeviceService_DeleteCascadesIOs(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()

	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")
	other := testutil.SeedDevice(t, db, "Shure", "ULXD4", "Wireless")
	testutil.SeedDeviceIO(t, db, mixer.ID, "Omni Out 1", "XLR", "Male", "output")
	testutil.SeedDeviceIO(t, db, mixer.ID, "Omni Out 2", "XLR", "Male", "output")
	testutil.SeedDeviceIO(t, db, other.ID, "Out A", "XLR", "Male", "output")

	require.NoError(t, svc.Device.Delete(ctx, mixer.ID))

	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.DeviceIO{}, "device_id = ?", mixer.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.DeviceIO{}, "device_id = ?", other.ID))
}

func TestDeviceService_ListNewestFirst(t *testing.T) {
	svc, db, _ := setupServices(t)
	first := testutil.SeedDevice(t, db, "A", "1", "Mixer")
	second := testutil.SeedDevice(t, db, "B", "2", "Mixer")

	devices, err := svc.Device.List(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, second.ID, devices[0].ID)
	assert.Equal(t, first.ID, devices[1].ID)
}

func TestDeviceIOService_FilterAndUpdate(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")
	other := testutil.SeedDevice(t, db, "Shure", "ULXD4", "Wireless")

	io, err := svc.DeviceIO.Create(ctx, &CreateDeviceIOInput{
		DeviceID:      str(mixer.ID),
		Label:         str("Omni Out 1"),
		ConnectorType: str("XLR"),
		Gender:        str("Male"),
		Direction:     str("output"),
		SignalType:    str("audio"),
	})
	require.NoError(t, err)
	testutil.SeedDeviceIO(t, db, other.ID, "Out A", "XLR", "Male", "output")

	all, err := svc.DeviceIO.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.DeviceIO.List(ctx, mixer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, io.ID, mine[0].ID)

	var input UpdateDeviceIOInput
	decodeUpdate(t, `{"label":"Omni Out 2","device_id":"ignored"}`, &input)
	updated, err := svc.DeviceIO.Update(ctx, io.ID, &input)
	require.NoError(t, err)
	assert.Equal(t, "Omni Out 2", updated.Label)
	assert.Equal(t, mixer.ID, updated.DeviceID)
}

func TestDeviceIOService_AcceptsUnknownDevice(t *testing.T) {
	svc, _, _ := setupServices(t)

	io, err := svc.DeviceIO.Create(context.Background(), &CreateDeviceIOInput{
		DeviceID:      str("no-such-device"),
		Label:         str("In"),
		ConnectorType: str("XLR"),
		Gender:        str("Female"),
		Direction:     str("input"),
		SignalType:    str("audio"),
	})
	require.NoError(t, err)
	assert.Equal(t, "no-such-device", io.DeviceID)
}

func TestDiagramService_DeleteCascades(t *testing.T) {
	svc, db, pub := setupServices(t)
	ctx := context.Background()

	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")
	out := testutil.SeedDeviceIO(t, db, mixer.ID, "Omni Out 1", "XLR", "Male", "output")
	in := testutil.SeedDeviceIO(t, db, mixer.ID, "Input 1", "XLR", "Female", "input")

	keep := testutil.SeedDiagram(t, db, "Keep")
	keepDD := testutil.SeedDiagramDevice(t, db, keep.ID, mixer.ID, 0, 0)
	testutil.SeedConnection(t, db, keep.ID, keepDD, out, keepDD, in)

	diagram := testutil.SeedDiagram(t, db, "Stage")
	a := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 10, 10)
	b := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 200, 10)
	testutil.SeedConnection(t, db, diagram.ID, a, out, b, in)

	require.NoError(t, svc.Diagram.Delete(ctx, diagram.ID))

	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.DiagramDevice{}, "diagram_id = ?", diagram.ID))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Connection{}, "diagram_id = ?", diagram.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.DiagramDevice{}, "diagram_id = ?", keep.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.Connection{}, "diagram_id = ?", keep.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.Device{}, ""))

	require.Len(t, pub.events, 1)
	assert.Equal(t, recordedEvent{diagram.ID, "diagram", diagram.ID, ActionDeleted}, pub.events[0])
}

func TestDiagramService_ListRecentlyUpdatedFirst(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	older := testutil.SeedDiagram(t, db, "Older")
	newer := testutil.SeedDiagram(t, db, "Newer")

	diagrams, err := svc.Diagram.List(ctx)
	require.NoError(t, err)
	require.Len(t, diagrams, 2)
	assert.Equal(t, newer.ID, diagrams[0].ID)

	var input UpdateDiagramInput
	decodeUpdate(t, `{"name":"Older, renamed"}`, &input)
	_, err = svc.Diagram.Update(ctx, older.ID, &input)
	require.NoError(t, err)

	diagrams, err = svc.Diagram.List(ctx)
	require.NoError(t, err)
	require.Len(t, diagrams, 2)
	assert.Equal(t, older.ID, diagrams[0].ID)
}

func TestSeededRowsPredateServiceWrites(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	seeded := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")

	created, err := svc.Device.Create(ctx, &CreateDeviceInput{
		Brand: str("Shure"), Model: str("ULXD4"), Category: str("Wireless"),
	})
	require.NoError(t, err)
	assert.True(t, seeded.CreatedAt.Before(created.CreatedAt))

	for i := 0; i < 3; i++ {
		var input UpdateDeviceInput
		decodeUpdate(t, `{"model":"CL5 rev"}`, &input)
		updated, err := svc.Device.Update(ctx, seeded.ID, &input)
		require.NoError(t, err)
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
	}
}

func TestDiagramDeviceService_RotationDefaultAndUpdate(t *testing.T) {
	svc, db, pub := setupServices(t)
	ctx := context.Background()
	diagram := testutil.SeedDiagram(t, db, "Stage")
	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")

	dd, err := svc.DiagramDevice.Create(ctx, &CreateDiagramDeviceInput{
		DiagramID: str(diagram.ID),
		DeviceID:  str(mixer.ID),
		PositionX: num(100),
		PositionY: num(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, dd.Rotation)

	updated, err := svc.DiagramDevice.Update(ctx, dd.ID, &UpdateDiagramDeviceInput{Rotation: Of(90.0)})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Rotation)
	assert.Equal(t, 100.0, updated.PositionX)
	assert.Equal(t, 0.0, updated.PositionY)

	require.Len(t, pub.events, 2)
	assert.Equal(t, recordedEvent{diagram.ID, "diagram_device", dd.ID, ActionCreated}, pub.events[0])
	assert.Equal(t, ActionUpdated, pub.events[1].Action)
}

func TestDiagramDeviceService_MissingPosition(t *testing.T) {
	svc, _, pub := setupServices(t)

	_, err := svc.DiagramDevice.Create(context.Background(), &CreateDiagramDeviceInput{
		DiagramID: str("d"),
		DeviceID:  str("x"),
		PositionX: num(1),
	})
	assert.True(t, IsValidation(err))
	assert.Empty(t, pub.events)
}

func TestDiagramDeviceService_DeleteKeepsConnections(t *testing.T) {
	svc, db, _ := setupServices(t)
	diagram := testutil.SeedDiagram(t, db, "Stage")
	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")
	out := testutil.SeedDeviceIO(t, db, mixer.ID, "Out", "XLR", "Male", "output")
	a := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 0, 0)
	b := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 1, 1)
	testutil.SeedConnection(t, db, diagram.ID, a, out, b, out)

	require.NoError(t, svc.DiagramDevice.Delete(context.Background(), a.ID))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.Connection{}, "diagram_id = ?", diagram.ID))
}

func TestConnectionService_CreateUpdateDelete(t *testing.T) {
	svc, db, pub := setupServices(t)
	ctx := context.Background()
	diagram := testutil.SeedDiagram(t, db, "Stage")

	conn, err := svc.Connection.Create(ctx, &CreateConnectionInput{
		DiagramID:             str(diagram.ID),
		SourceDiagramDeviceID: str("dd-a"),
		SourceIOID:            str("io-a"),
		TargetDiagramDeviceID: str("dd-b"),
		TargetIOID:            str("io-b"),
		CableLabel:            str("C1"),
	})
	require.NoError(t, err)
	assert.Nil(t, conn.Notes)

	var input UpdateConnectionInput
	decodeUpdate(t, `{"target_io_id":"io-c","cable_label":null,"cable_length":"5m"}`, &input)
	updated, err := svc.Connection.Update(ctx, conn.ID, &input)
	require.NoError(t, err)
	assert.Equal(t, "io-c", updated.TargetIOID)
	assert.Nil(t, updated.CableLabel)
	require.NotNil(t, updated.CableLength)
	assert.Equal(t, "5m", *updated.CableLength)

	require.NoError(t, svc.Connection.Delete(ctx, conn.ID))
	_, err = svc.Connection.Get(ctx, conn.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, pub.events, 3)
	for _, e := range pub.events {
		assert.Equal(t, diagram.ID, e.DiagramID)
		assert.Equal(t, "connection", e.Entity)
	}
}

func TestCableSchedule_Build(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()

	diagram := testutil.SeedDiagram(t, db, "FOH")
	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")
	rx := testutil.SeedDevice(t, db, "Shure", "ULXD4", "Wireless")
	out := testutil.SeedDeviceIO(t, db, mixer.ID, "Omni Out 1", "XLR", "Male", "output")
	in := testutil.SeedDeviceIO(t, db, rx.ID, "Line In", "XLR", "Female", "input")
	a := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 0, 0)
	b := testutil.SeedDiagramDevice(t, db, diagram.ID, rx.ID, 100, 0)

	testutil.SeedConnection(t, db, diagram.ID, a, out, b, in)
	second := testutil.SeedConnection(t, db, diagram.ID, b, in, a, out)
	require.NoError(t, db.Model(second).Updates(map[string]interface{}{
		"cable_label":  "Return",
		"cable_length": "3m",
		"notes":        "Cable needed: XLR M-F",
	}).Error)

	schedule, err := svc.CableSchedule.Build(ctx, diagram.ID)
	require.NoError(t, err)
	assert.Equal(t, "FOH", schedule.DiagramName)
	assert.Equal(t, "Test Client", schedule.ClientName)
	require.Len(t, schedule.Rows, 2)

	r1 := schedule.Rows[0]
	assert.Equal(t, 1, r1.Number)
	assert.Equal(t, "Cable 1", r1.CableLabel)
	assert.Equal(t, "Yamaha CL5", r1.FromDevice)
	assert.Equal(t, "Omni Out 1 (XLR Male)", r1.FromPort)
	assert.Equal(t, "Shure ULXD4", r1.ToDevice)
	assert.Equal(t, "Line In (XLR Female)", r1.ToPort)
	assert.Equal(t, "Standard Cable", r1.CableType)
	assert.Equal(t, "TBD", r1.CableLength)

	r2 := schedule.Rows[1]
	assert.Equal(t, "Return", r2.CableLabel)
	assert.Equal(t, "XLR M-F", r2.CableType)
	assert.Equal(t, "3m", r2.CableLength)
}

func TestCableSchedule_DanglingReferences(t *testing.T) {
	svc, db, _ := setupServices(t)
	diagram := testutil.SeedDiagram(t, db, "Stage")
	mixer := testutil.SeedDevice(t, db, "Yamaha", "CL5", "Mixer")
	out := testutil.SeedDeviceIO(t, db, mixer.ID, "Out", "XLR", "Male", "output")
	a := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 0, 0)
	b := testutil.SeedDiagramDevice(t, db, diagram.ID, mixer.ID, 1, 0)
	testutil.SeedConnection(t, db, diagram.ID, a, out, b, out)
	require.NoError(t, db.Delete(&entity.DiagramDevice{}, "id = ?", b.ID).Error)

	schedule, err := svc.CableSchedule.Build(context.Background(), diagram.ID)
	require.NoError(t, err)
	require.Len(t, schedule.Rows, 1)
	assert.Equal(t, "Yamaha CL5", schedule.Rows[0].FromDevice)
	assert.Equal(t, "", schedule.Rows[0].ToDevice)
	assert.Equal(t, "Out (XLR Male)", schedule.Rows[0].ToPort)
}

func TestCableSchedule_UnknownDiagram(t *testing.T) {
	svc, _, _ := setupServices(t)
	_, err := svc.CableSchedule.Build(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadService_SaveAndOpen(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	url, err := svc.Upload.Save(ctx, "photo.PNG", bytes.NewReader([]byte("png-bytes")), 9)
	require.NoError(t, err)
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}_photo\.PNG$`, url)

	rc, err := svc.Upload.Open(ctx, strings.TrimPrefix(url, "/uploads/"))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestUploadService_Rejects(t *testing.T) {
	svc, _, _ := setupServices(t)
	ctx := context.Background()

	_, err := svc.Upload.Save(ctx, "photo.txt", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = svc.Upload.Save(ctx, "", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrNoFilename)

	_, err = svc.Upload.Open(ctx, "../secret.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Upload.Open(ctx, "never-stored.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadService_NoStore(t *testing.T) {
	up := NewUploadService(nil, nil)
	_, err := up.Save(context.Background(), "a.png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrStorageNotEnabled)
}
