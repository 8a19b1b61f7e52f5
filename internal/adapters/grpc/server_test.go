package grpc_test

import (
	"context"
	"testing"

	grpcadapter "github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/grpc"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/memory"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type oneRowSource struct{}

func (oneRowSource) FetchTable(_ context.Context, locations []string) (ports.Table, error) {
	if len(locations) == 0 || locations[0] != "datos.csv" {
		return ports.Table{}, domain.ErrSourceUnavailable
	}
	return ports.Table{
		Source:    "datos.csv",
		Rows:      []map[string]string{{"ID": "1", "SEGMENTO": "PERSONAS", "satisfaccion_general": "4"}},
		TotalRows: 1,
	}, nil
}

func TestHealthTracksDatasetState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Config:   application.Config{ServiceName: "satisfaction-analytics", SurveyLocations: []string{"datos.csv"}},
		Datasets: repos.Datasets,
		Outbox:   repos.Outbox,
		Cache:    memory.NewCache(),
		Source:   oneRowSource{},
	})
	health := grpcadapter.NewHealthServer(svc)

	resp, err := health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before load, got %v", resp.GetStatus())
	}

	if _, err := svc.LoadDataset(ctx, application.LoadInput{Trigger: "test"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	resp, err = health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING after load, got %v", resp.GetStatus())
	}
}
