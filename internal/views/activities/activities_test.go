package activities

import (
	"strings"
	"testing"

	"github.com/mergington/activities-tui/internal/client"
)

func chessClub(participants ...string) client.Activity {
	return client.Activity{
		Name:            "Chess Club",
		Description:     "d",
		Schedule:        "s",
		MaxParticipants: 10,
		Participants:    participants,
	}
}

func loaded(list ...client.Activity) Model {
	m := New()
	m.Width = 80
	m.Loading = false
	m.SetActivities(list)
	return m
}

func TestViewLoading(t *testing.T) {
	m := New()
	if !strings.Contains(m.View(), "Loading activities") {
		t.Error("initial view should show the loading text")
	}
}

func TestViewLoadFailed(t *testing.T) {
	m := New()
	m.Loading = false
	m.LoadFailed = true
	if !strings.Contains(m.View(), "Failed to load activities. Please try again later.") {
		t.Error("failed load should show the failure text")
	}
}

func TestViewCard(t *testing.T) {
	m := loaded(chessClub("a@x.com"))
	v := m.View()
	for _, want := range []string{"Chess Club", "Schedule:", "9 spots left", "a@x.com"} {
		if !strings.Contains(v, want) {
			t.Errorf("card should contain %q", want)
		}
	}
	if strings.Count(v, "a@x.com") != 1 {
		t.Error("expected exactly one participant row")
	}
}

func TestViewNoParticipants(t *testing.T) {
	m := loaded(chessClub())
	v := m.View()
	if !strings.Contains(v, "No participants yet") {
		t.Error("empty roster should say 'No participants yet'")
	}
	if !strings.Contains(v, "10 spots left") {
		t.Error("empty roster should have all spots left")
	}
}

func TestNegativeSpotsPassThrough(t *testing.T) {
	a := chessClub("a", "b", "c")
	a.MaxParticipants = 2
	m := loaded(a)
	if !strings.Contains(m.View(), "-1 spots left") {
		t.Error("spots left should not be clamped")
	}
}

func TestDeleteMarkerOnlyWhenAuthenticated(t *testing.T) {
	m := loaded(chessClub("a@x.com"))
	if strings.Contains(m.View(), deleteMarker) {
		t.Error("delete marker should be hidden when anonymous")
	}
	m.Authenticated = true
	if !strings.Contains(m.View(), deleteMarker) {
		t.Error("delete marker should be shown when authenticated")
	}
}

func TestNavigation(t *testing.T) {
	art := client.Activity{Name: "Art Club", MaxParticipants: 5}
	m := loaded(chessClub("a@x.com", "b@x.com"), art)

	if name, _ := m.SelectedName(); name != "Chess Club" {
		t.Fatalf("expected Chess Club selected, got %q", name)
	}
	if _, ok := m.SelectedParticipant(); ok {
		t.Error("no participant should be selected initially")
	}

	m.NextParticipant()
	m.NextParticipant()
	if email, _ := m.SelectedParticipant(); email != "b@x.com" {
		t.Errorf("expected b@x.com, got %q", email)
	}
	m.NextParticipant() // wraps
	if email, _ := m.SelectedParticipant(); email != "a@x.com" {
		t.Errorf("expected wrap to a@x.com, got %q", email)
	}
	m.PrevParticipant()
	if email, _ := m.SelectedParticipant(); email != "b@x.com" {
		t.Errorf("expected wrap back to b@x.com, got %q", email)
	}

	m.Next()
	if name, _ := m.SelectedName(); name != "Art Club" {
		t.Errorf("expected Art Club, got %q", name)
	}
	m.NextParticipant() // empty roster
	if _, ok := m.SelectedParticipant(); ok {
		t.Error("empty roster has no participant to select")
	}
	m.Next()
	if name, _ := m.SelectedName(); name != "Chess Club" {
		t.Errorf("expected wrap to Chess Club, got %q", name)
	}
	m.Prev()
	if name, _ := m.SelectedName(); name != "Art Club" {
		t.Errorf("expected wrap back to Art Club, got %q", name)
	}
}

func TestSetActivitiesKeepsSelection(t *testing.T) {
	art := client.Activity{Name: "Art Club"}
	m := loaded(chessClub("a@x.com"), art)
	m.Select("Art Club")

	m.SetActivities([]client.Activity{{Name: "Drama"}, art, chessClub()})
	if name, _ := m.SelectedName(); name != "Art Club" {
		t.Errorf("selection should follow Art Club, got %q", name)
	}

	m.Select("Chess Club")
	m.SetActivities([]client.Activity{art})
	if name, _ := m.SelectedName(); name != "Art Club" {
		t.Errorf("removed selection should fall back to the first activity, got %q", name)
	}
}

func TestSetActivitiesDropsRemovedParticipant(t *testing.T) {
	m := loaded(chessClub("a@x.com", "b@x.com"))
	m.NextParticipant()
	m.SetActivities([]client.Activity{chessClub("b@x.com")})
	if _, ok := m.SelectedParticipant(); ok {
		t.Error("removed participant should no longer be selected")
	}
}

func TestVisibleCardsKeepsSelection(t *testing.T) {
	cards := []string{"a\na", "b\nb", "c\nc", "d\nd"}
	got := visibleCards(cards, 3, 4)
	if len(got) != 2 || got[1] != "d\nd" {
		t.Errorf("expected last two cards, got %v", got)
	}
	if len(visibleCards(cards, 0, 0)) != 4 {
		t.Error("zero height should show all cards")
	}
}
