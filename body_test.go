package spatialq

import (
	"testing"

	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

func TestBody_SetTypeClearsVelocity(t *testing.T) {
	body := NewDynamicBody()
	body.SetLinvel(vect.XY(1, 2))
	body.SetType(BodyFixed)

	if !body.Linvel().IsZero() {
		t.Error("Expected a fixed body to lose its velocity")
	}
	body.SetLinvel(vect.XY(1, 0))
	if !body.Linvel().IsZero() {
		t.Error("Expected a fixed body to ignore velocity changes")
	}
}

func TestBody_PredictPosition(t *testing.T) {
	body := NewDynamicBody()
	body.SetTranslation(vect.XY(1, 1))
	body.SetLinvel(vect.XY(2, 0))

	if got := body.PredictPosition(0.5).Translation; !got.Near(vect.XY(2, 1), 1e-12) {
		t.Errorf("Expected (2, 1), got %v", got)
	}
	if got := body.NextPosition(); got != body.Position() {
		t.Errorf("Expected the next position to default to the current one, got %v", got)
	}
}

func TestBodySet_RemoveDetachesColliders(t *testing.T) {
	bodies := NewBodySet()
	colliders := NewColliderSet()
	islands := NewIslandManager()

	body := NewDynamicBody()
	body.SetTranslation(vect.XY(3, 0))
	bh := bodies.Insert(body)
	islands.WakeUp(bodies, bh)

	c := NewCollider(geom.NewBall(1))
	c.SetTranslation(vect.XY(1, 0))
	ch := colliders.InsertWithParent(c, bh, bodies)

	if got := c.Position(bodies).Translation; !got.Near(vect.XY(4, 0), 1e-12) {
		t.Fatalf("Expected the collider at (4, 0), got %v", got)
	}
	if len(body.Colliders()) != 1 || body.Colliders()[0] != ch {
		t.Fatalf("Expected the body to list its collider, got %v", body.Colliders())
	}

	if _, ok := bodies.Remove(bh, islands, colliders, false); !ok {
		t.Fatal("Expected to remove the body")
	}
	if islands.IsActive(bh) {
		t.Error("Expected the removed body to leave the active set")
	}
	if _, ok := c.Parent(); ok {
		t.Error("Expected the collider to be detached")
	}
	if got := c.Position(bodies).Translation; !got.Near(vect.XY(4, 0), 1e-12) {
		t.Errorf("Expected the detached collider to keep its world pose, got %v", got)
	}
	if !colliders.Contains(ch) {
		t.Error("Expected the collider to survive")
	}
}

func TestBodySet_RemoveWithColliders(t *testing.T) {
	bodies := NewBodySet()
	colliders := NewColliderSet()
	bh := bodies.Insert(NewDynamicBody())
	ch := colliders.InsertWithParent(NewCollider(geom.NewBall(1)), bh, bodies)

	bodies.Remove(bh, nil, colliders, true)
	if colliders.Contains(ch) {
		t.Error("Expected the collider to be removed with its body")
	}
}

func TestIslandManager(t *testing.T) {
	bodies := NewBodySet()
	islands := NewIslandManager()

	fixed := bodies.Insert(NewFixedBody())
	dynamic := bodies.Insert(NewDynamicBody())
	kinematic := bodies.Insert(NewRigidBody(BodyKinematicVelocityBased))

	islands.UpdateActiveSet(bodies)
	active := islands.ActiveBodies()
	if len(active) != 2 || active[0] != dynamic || active[1] != kinematic {
		t.Errorf("Expected the dynamic and kinematic bodies, got %v", active)
	}

	islands.Sleep(bodies, dynamic)
	if islands.IsActive(dynamic) {
		t.Error("Expected the body to sleep")
	}
	if b, _ := bodies.Get(dynamic); !b.IsSleeping() {
		t.Error("Expected the sleep flag to be set")
	}
	islands.UpdateActiveSet(bodies)
	if islands.IsActive(dynamic) {
		t.Error("Expected a sleeping body to stay inactive")
	}

	islands.WakeUp(bodies, fixed)
	if islands.IsActive(fixed) {
		t.Error("Expected a fixed body never to be active")
	}
	islands.WakeUp(bodies, dynamic)
	if !islands.IsActive(dynamic) {
		t.Error("Expected the body to wake up")
	}
}
