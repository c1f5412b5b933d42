package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

func testClient(hub *Hub, orgID uuid.UUID, role string) *Client {
	client := &Client{
		Hub:            hub,
		Send:           make(chan []byte, 8),
		OrganizationID: orgID,
		UserID:         uuid.New(),
		Role:           role,
	}
	hub.register <- client
	return client
}

func receiveEvent(t *testing.T, client *Client) approval.Event {
	t.Helper()
	select {
	case payload := <-client.Send:
		var event approval.Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("expected an event, got none")
		return approval.Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case payload := <-client.Send:
		t.Fatalf("expected no event, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_EventsStayWithinOrganization(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	orgA := uuid.New()
	orgB := uuid.New()
	adminA := testClient(hub, orgA, model.RoleAdmin)
	adminB := testClient(hub, orgB, model.RoleAdmin)

	event := approval.Event{
		Type:           approval.EventSubmitted,
		Kind:           model.KindTransaction,
		EntityID:       uuid.New(),
		OrganizationID: orgA,
		Status:         model.StatusPendingCreate,
		ActorID:        uuid.New(),
	}
	hub.Publish(event)

	got := receiveEvent(t, adminA)
	assert.Equal(t, event.EntityID, got.EntityID)
	assert.Equal(t, orgA, got.OrganizationID)

	assertNoEvent(t, adminB)
}

func TestHub_SubmissionsReachAdminsAndSubmitter(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	org := uuid.New()
	admin := testClient(hub, org, model.RoleAdmin)
	submitter := testClient(hub, org, model.RoleUser)
	bystander := testClient(hub, org, model.RoleUser)

	hub.Publish(approval.Event{
		Type:           approval.EventSubmitted,
		Kind:           model.KindTask,
		EntityID:       uuid.New(),
		OrganizationID: org,
		Status:         model.StatusPendingEdit,
		ActorID:        submitter.UserID,
	})

	assert.Equal(t, approval.EventSubmitted, receiveEvent(t, admin).Type)
	assert.Equal(t, approval.EventSubmitted, receiveEvent(t, submitter).Type)
	assertNoEvent(t, bystander)
}

func TestHub_DecisionsReachTheWholeTenant(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	org := uuid.New()
	admin := testClient(hub, org, model.RoleAdmin)
	member := testClient(hub, org, model.RoleUser)

	hub.Publish(approval.Event{
		Type:           approval.EventResolved,
		Kind:           model.KindTask,
		EntityID:       uuid.New(),
		OrganizationID: org,
		Status:         model.StatusApproved,
		ActorID:        admin.UserID,
	})

	assert.Equal(t, model.StatusApproved, receiveEvent(t, admin).Status)
	assert.Equal(t, model.StatusApproved, receiveEvent(t, member).Status)
}
