package inventory

import (
	"context"

	"github.com/erazemk/inventario/internal/model"
)

// SeedDemo loads a small demo data set through the regular mutation paths,
// so the seeded equipment has its creation and assignment history.
func SeedDemo(ctx context.Context, s *Service) {
	ana := s.AddUser(ctx, model.UserInput{Name: "Ana Souza", Department: "IT", Email: "ana.souza@example.com", Extension: "2101"})
	bruno := s.AddUser(ctx, model.UserInput{Name: "Bruno Lima", Department: "Legal", Email: "bruno.lima@example.com"})
	s.AddUser(ctx, model.UserInput{Name: "Carla Mendes", Department: "Administration/HR", Email: "carla.mendes@example.com", Extension: "2230"})

	equipment := []model.EquipmentInput{
		{Name: "Dell Latitude 5420", Type: "Notebook", SerialNumber: "DL5420-001", AssignedTo: &ana.ID},
		{Name: "LG 27UL500", Type: "Monitor", SerialNumber: "LG27-114", AssignedTo: &ana.ID},
		{Name: "Logitech MX Keys", Type: "Keyboard", SerialNumber: "MXK-7781", AssignedTo: &bruno.ID},
		{Name: "Jabra Evolve 40", Type: "Headset", SerialNumber: "JE40-3310"},
		{Name: "Lenovo ThinkPad E14", Type: "Notebook", SerialNumber: "TPE14-092", Status: model.StatusMaintenance},
	}
	for _, in := range equipment {
		s.AddEquipment(ctx, in)
	}
}
