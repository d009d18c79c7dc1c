package controller_test

import (
	"context"
	"testing"

	"taskchain/internal/controller"
	"taskchain/internal/service"
	"taskchain/internal/testutil"
)

func TestApply_UpdateForReplacedEditIsIgnored(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("A", "d1", service.StatusPending)
	backend.AddTask("B", "d2", service.StatusPending)
	c := newController(t, backend)

	c.BeginEdit("1")
	c.SetEdit(service.Fields{Name: "A2", Description: "d1", Status: service.StatusPending})
	op, ok := c.PrepareUpdate()
	if !ok {
		t.Fatal("expected update op")
	}

	// User moves on to B while A's save is in flight.
	c.BeginEdit("2")
	res := op.Run(context.Background())
	if err := c.Apply(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edit, ok := c.Editing()
	if !ok || edit.ID != "2" {
		t.Fatalf("expected edit of B to stay active, got %+v (%v)", edit, ok)
	}
	if a, _ := c.Find("1"); a.Name != "A2" {
		t.Errorf("expected refreshed collection to show saved A2, got %q", a.Name)
	}
}

func TestApply_CreateKeepsDraftEditedInFlight(t *testing.T) {
	backend := testutil.NewFakeBackend()
	c := newController(t, backend)

	c.SetDraft(controller.Draft{Name: "A", Description: "d1", Status: service.StatusPending})
	op, err := c.PrepareCreate()
	if err != nil {
		t.Fatal(err)
	}
	next := controller.Draft{Name: "B", Description: "typing", Status: service.StatusPending}
	c.SetDraft(next)

	if err := c.Apply(op.Run(context.Background())); err != nil {
		t.Fatal(err)
	}
	if c.Draft() != next {
		t.Errorf("expected in-progress draft kept, got %+v", c.Draft())
	}
	if len(c.Tasks()) != 1 {
		t.Errorf("expected created task listed, got %+v", c.Tasks())
	}
}

func TestApply_StaleListDropped(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("A", "d1", service.StatusPending)
	c := newController(t, backend)
	ctx := context.Background()

	older := c.PrepareRefresh().Run(ctx)
	backend.AddTask("B", "d2", service.StatusPending)
	newer := c.PrepareRefresh().Run(ctx)

	if err := c.Apply(newer); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(older); err != nil {
		t.Fatal(err)
	}
	if len(c.Tasks()) != 2 {
		t.Errorf("expected newer list to win, got %+v", c.Tasks())
	}
}

func TestPrepareCreate_Validation(t *testing.T) {
	c := controller.New(service.NewClient(testutil.NewFakeBackend(), nil), nil)
	c.SetDraft(controller.Draft{Name: "n", Description: "d", Status: "Archived"})
	if _, err := c.PrepareCreate(); !service.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestResult_Err(t *testing.T) {
	backend := testutil.NewFakeBackend()
	c := newController(t, backend)

	res := c.PrepareDelete("missing").Run(context.Background())
	if !service.IsRemote(res.Err()) {
		t.Errorf("expected remote error, got %v", res.Err())
	}
	if err := c.Apply(res); !service.IsRemote(err) {
		t.Errorf("expected Apply to return the remote error, got %v", err)
	}
}

func TestApply_UpdateKeepsEditChangedInFlight(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.AddTask("A", "d1", service.StatusPending)
	c := newController(t, backend)

	c.BeginEdit("1")
	c.SetEdit(service.Fields{Name: "A2", Description: "d1", Status: service.StatusOngoing})
	op, ok := c.PrepareUpdate()
	if !ok {
		t.Fatal("expected update op")
	}

	// More typing on the same task while the save is in flight.
	later := service.Fields{Name: "A3", Description: "d1", Status: service.StatusCompleted}
	if err := c.SetEdit(later); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(op.Run(context.Background())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Mode() != controller.Editing {
		t.Fatalf("expected edit to stay active, got %s", c.Mode())
	}
	edit, _ := c.Editing()
	if edit.Fields() != later {
		t.Errorf("expected later edit kept, got %+v", edit.Fields())
	}
	if a, _ := c.Find("1"); a.Name != "A2" {
		t.Errorf("expected refreshed collection to show saved A2, got %q", a.Name)
	}

	// Saving again sends the kept edit and ends it.
	if err := c.SubmitUpdate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != controller.Idle {
		t.Errorf("expected idle after second save, got %s", c.Mode())
	}
	if a, _ := c.Find("1"); a.Fields() != later {
		t.Errorf("expected A3/Completed stored, got %+v", a)
	}
}
