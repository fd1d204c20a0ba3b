// Package present maps collection records to display cards.
//
// Everything here is a pure function of its input. The dashboard page
// renders cards as text, so descriptions are reduced to plain text.
package present

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/okian/octofit/internal/domain/model"
	"github.com/okian/octofit/internal/domain/ordering"
)

// Placeholders used when a field is missing.
const (
	NotAvailable  = "N/A"
	NoTeam        = "No Team"
	NoActivities  = "No activities yet"
	dateLayout    = "2006-01-02"
	usernameDelim = "@"
)

// Team badges.
const (
	BadgeMarvel = "M"
	BadgeDC     = "DC"
)

var strict = bluemonday.StrictPolicy()

// Field is one labelled value on a card.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the display form of one record.
type Card struct {
	Title  string   `json:"title"`
	Badge  string   `json:"badge,omitempty"`
	Text   string   `json:"text,omitempty"`
	Fields []Field  `json:"fields,omitempty"`
	Lines  []string `json:"lines,omitempty"`
	Note   string   `json:"note,omitempty"`
}

// Cards renders items for res. Rank labels on the leaderboard follow the
// order of items.
func Cards(res model.Resource, items []model.Record) []Card {
	out := make([]Card, 0, len(items))
	for i, rec := range items {
		switch res {
		case model.ResourceUsers:
			out = append(out, userCard(rec))
		case model.ResourceTeams:
			out = append(out, teamCard(rec))
		case model.ResourceActivities:
			out = append(out, activityCard(rec))
		case model.ResourceLeaderboard:
			out = append(out, leaderboardCard(i, rec))
		case model.ResourceWorkouts:
			out = append(out, workoutCard(rec))
		}
	}
	return out
}

// EmptyMessage is shown in place of the list when a load succeeds with no records.
func EmptyMessage(res model.Resource) string {
	switch res {
	case model.ResourceUsers:
		return "No users found"
	case model.ResourceTeams:
		return "No teams available yet. Be the first to create one!"
	case model.ResourceActivities:
		return "No activities found"
	case model.ResourceLeaderboard:
		return "No leaderboard data available yet"
	case model.ResourceWorkouts:
		return "No workouts available yet"
	default:
		return "Nothing to show"
	}
}

// LoadingMessage is shown while a load is outstanding.
func LoadingMessage(res model.Resource) string {
	return "Loading " + res.Segment() + "..."
}

// TeamBadge returns "M" for Marvel teams, "DC" for DC teams and "" otherwise.
// Marvel wins when a name matches both.
func TeamBadge(teamName string) string {
	lower := strings.ToLower(teamName)
	switch {
	case strings.Contains(lower, "marvel"):
		return BadgeMarvel
	case strings.Contains(lower, "dc"):
		return BadgeDC
	default:
		return ""
	}
}

// Username is the local part of an email address.
func Username(email string) string {
	if email == "" {
		return NotAvailable
	}
	local, _, _ := strings.Cut(email, usernameDelim)
	return local
}

// RankLabel is a medal for the top three positions and the 1-based rank after.
func RankLabel(index int) string {
	switch index {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return strconv.Itoa(index + 1)
	}
}

// PlainText strips all markup from s.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// ActivityLine summarizes one nested user activity.
func ActivityLine(act model.Record) string {
	var b strings.Builder
	b.WriteString(orNA(act.Str("activity_type")))
	b.WriteString(" • ")
	b.WriteString(number(act.Num("calories")))
	b.WriteString(" cal • ")
	b.WriteString(number(act.Num("duration")))
	b.WriteString(" min")
	if d := act.Num("distance"); d != 0 {
		b.WriteString(" • ")
		b.WriteString(strconv.FormatFloat(d, 'f', 2, 64))
		b.WriteString(" km")
	}
	b.WriteString(" • ")
	b.WriteString(date(act.Str("date")))
	return b.String()
}

func userCard(rec model.Record) Card {
	email := rec.Str("email")
	c := Card{
		Title: orNA(rec.Str("name")),
		Badge: TeamBadge(rec.Str("team_name")),
		Fields: []Field{
			{Label: "Email", Value: orNA(email)},
			{Label: "Username", Value: Username(email)},
		},
	}
	for _, act := range rec.List("activities") {
		c.Lines = append(c.Lines, ActivityLine(act))
	}
	if len(c.Lines) == 0 {
		c.Note = NoActivities
	}
	return c
}

func teamCard(rec model.Record) Card {
	return Card{
		Title: orNA(rec.Str("name")),
		Text:  PlainText(rec.Str("description")),
		Fields: []Field{
			{Label: "Created", Value: date(rec.Str("created_at"))},
		},
	}
}

func activityCard(rec model.Record) Card {
	distance := "0.00"
	if d := rec.Num("distance"); d != 0 {
		distance = strconv.FormatFloat(d, 'f', 2, 64)
	}
	return Card{
		Title: orNA(rec.Str("user_username")),
		Badge: rec.Str("activity_type"),
		Fields: []Field{
			{Label: "Duration (min)", Value: number(rec.Num("duration"))},
			{Label: "Distance (km)", Value: distance},
			{Label: "Calories", Value: number(rec.Num("calories_burned")) + " cal"},
			{Label: "Date", Value: date(rec.Str("date"))},
		},
	}
}

func leaderboardCard(index int, rec model.Record) Card {
	team := rec.Str("team_name")
	if team == "" {
		team = NoTeam
	}
	return Card{
		Title: orNA(rec.Str("user_username")),
		Badge: RankLabel(index),
		Fields: []Field{
			{Label: "Team", Value: team},
			{Label: "Total Points", Value: number(rec.Num("total_points")) + " pts"},
			{Label: "Activities", Value: number(rec.Num("total_activities"))},
			{Label: "Calories Burned", Value: number(rec.Num("total_calories")) + " cal"},
		},
	}
}

func workoutCard(rec model.Record) Card {
	return Card{
		Title: orNA(rec.Str("name")),
		Text:  PlainText(rec.Str("description")),
		Fields: []Field{
			{Label: "Type", Value: orNA(rec.Str("workout_type"))},
			{Label: "Difficulty", Value: orNA(rec.Str("difficulty_level"))},
			{Label: "Duration", Value: number(rec.Num("duration_minutes")) + " minutes"},
			{Label: "Calories", Value: number(rec.Num("estimated_calories"))},
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func date(raw string) string {
	t, ok := ordering.ParseDate(raw)
	if !ok {
		return NotAvailable
	}
	return t.Format(dateLayout)
}
