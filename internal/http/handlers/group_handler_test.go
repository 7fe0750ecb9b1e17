package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/services"
)

// createGroup subscribes user to pro and opens a group, returning its id.
func createGroup(t *testing.T, r *gin.Engine, user, name string) string {
	t.Helper()
	upgradeTo(t, r, user, "pro")
	w := doJSON(t, r, http.MethodPost, "/groups", user, gin.H{"nombre": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create group: %d (%s)", w.Code, w.Body.String())
	}
	return decode[map[string]any](t, w)["id"].(string)
}

func TestCreateGroupRequiresPlan(t *testing.T) {
	r, _ := newAPI(t)

	w := doJSON(t, r, http.MethodPost, "/groups", "ana", gin.H{"nombre": "Madrugadores"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("free tier group: %d", w.Code)
	}
	if code := errCode(t, w); code != ErrCodePlanRequired {
		t.Fatalf("code = %q; want %q", code, ErrCodePlanRequired)
	}

	upgradeTo(t, r, "ana", "pro")
	if w := doJSON(t, r, http.MethodPost, "/groups", "ana", gin.H{"nombre": "Madrugadores"}); w.Code != http.StatusCreated {
		t.Fatalf("pro group: %d (%s)", w.Code, w.Body.String())
	}
}

func TestGetGroupMembersOnly(t *testing.T) {
	r, _ := newAPI(t)
	id := createGroup(t, r, "ana", "Madrugadores")

	w := doJSON(t, r, http.MethodGet, "/groups/"+id, "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get: %d", w.Code)
	}
	det := decode[services.GroupDetails](t, w)
	if len(det.Members) != 1 {
		t.Fatalf("members = %d; want 1 (owner)", len(det.Members))
	}

	if w := doJSON(t, r, http.MethodGet, "/groups/"+id, "bruno", nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger get: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/groups/"+uuid.NewString(), "ana", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown group: %d", w.Code)
	}
}

func TestInviteFlow(t *testing.T) {
	r, db := newAPI(t)
	id := createGroup(t, r, "ana", "Madrugadores")

	// Stranger cannot invite.
	if w := doJSON(t, r, http.MethodPost, "/groups/"+id+"/invites", "bruno", gin.H{"email": "x@example.com"}); w.Code != http.StatusForbidden {
		t.Fatalf("stranger invite: %d", w.Code)
	}

	// Owner invites; the token is not exposed over HTTP, read it back.
	if w := doJSON(t, r, http.MethodPost, "/groups/"+id+"/invites", "ana", gin.H{"email": "bruno@example.com"}); w.Code != http.StatusCreated {
		t.Fatalf("owner invite: %d", w.Code)
	}
	var inv domain.GroupInvite
	if err := db.Where("id_grupo = ?", id).First(&inv).Error; err != nil || inv.Token == "" {
		t.Fatalf("read invite token: %v (%q)", err, inv.Token)
	}
	token := inv.Token

	// Unknown token 404.
	if w := doJSON(t, r, http.MethodPost, "/invites/"+uuid.NewString()+"/accept", "bruno", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown token: %d", w.Code)
	}

	// Accept joins bruno.
	w := doJSON(t, r, http.MethodPost, "/invites/"+token+"/accept", "bruno", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("accept: %d (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/groups/"+id, "bruno", nil)
	det := decode[services.GroupDetails](t, w)
	if len(det.Members) != 2 {
		t.Fatalf("members after accept = %d; want 2", len(det.Members))
	}

	// Tokens are single-use.
	if w := doJSON(t, r, http.MethodPost, "/invites/"+token+"/accept", "carla", nil); w.Code != http.StatusGone {
		t.Fatalf("reused token: %d", w.Code)
	}
}

func TestRemoveMemberRules(t *testing.T) {
	r, db := newAPI(t)
	id := createGroup(t, r, "ana", "Madrugadores")

	// Join bruno through an invite.
	doJSON(t, r, http.MethodPost, "/groups/"+id+"/invites", "ana", gin.H{"email": "bruno@example.com"})
	var inv domain.GroupInvite
	db.Where("id_grupo = ?", id).First(&inv)
	doJSON(t, r, http.MethodPost, "/invites/"+inv.Token+"/accept", "bruno", nil)

	// A member cannot remove the owner.
	w := doJSON(t, r, http.MethodDelete, "/groups/"+id+"/members/ana", "bruno", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("member removes owner: %d", w.Code)
	}

	// The owner cannot leave.
	w = doJSON(t, r, http.MethodDelete, "/groups/"+id+"/members/ana", "ana", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("owner self-leave: %d", w.Code)
	}
	if code := errCode(t, w); code != ErrCodeOwnerCannotLeave {
		t.Fatalf("code = %q; want %q", code, ErrCodeOwnerCannotLeave)
	}

	// Self-leave works for regular members.
	if w := doJSON(t, r, http.MethodDelete, "/groups/"+id+"/members/bruno", "bruno", nil); w.Code != http.StatusNoContent {
		t.Fatalf("self-leave: %d", w.Code)
	}
}

func TestListGroups(t *testing.T) {
	r, _ := newAPI(t)
	createGroup(t, r, "ana", "Madrugadores")

	w := doJSON(t, r, http.MethodGet, "/groups", "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list groups: %d", w.Code)
	}
	groups := decode[[]map[string]any](t, w)
	if len(groups) != 1 || groups[0]["nombre"] != "Madrugadores" {
		t.Fatalf("groups = %v", groups)
	}

	// Non-member sees an empty list.
	w = doJSON(t, r, http.MethodGet, "/groups", "bruno", nil)
	if got := decode[[]map[string]any](t, w); len(got) != 0 {
		t.Fatalf("stranger groups = %v", got)
	}
}
