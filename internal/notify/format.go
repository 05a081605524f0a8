package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/office_hours/internal/model"
)

type statusDisplay struct {
	Emoji string
	Text  string
}

func displayStatus(status model.AppointmentStatus) statusDisplay {
	switch status {
	case model.AppointmentStatusPending:
		return statusDisplay{"⏳", "pending"}
	case model.AppointmentStatusConfirmed:
		return statusDisplay{"✅", "confirmed"}
	case model.AppointmentStatusCancelled:
		return statusDisplay{"❌", "cancelled"}
	case model.AppointmentStatusCompleted:
		return statusDisplay{"🏁", "completed"}
	}
	return statusDisplay{"❓", string(status)}
}

// Times are rendered in UTC, matching what the API accepts.

func formatDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006")
}

func formatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s UTC", start.UTC().Format("15:04"), end.UTC().Format("15:04"))
}

func requestedText(student *model.User, appointment *model.Appointment) string {
	return fmt.Sprintf(
		"⏳ <b>New appointment request</b>\n\n"+
			"👤 Student: %s\n"+
			"📅 Date: %s\n"+
			"🕐 Time: %s\n\n"+
			"Confirm or cancel it in office hours.",
		html.EscapeString(student.Name),
		formatDate(appointment.StartTime),
		formatTimeRange(appointment.StartTime, appointment.EndTime),
	)
}

func statusChangedText(professor *model.User, appointment *model.Appointment) string {
	status := displayStatus(appointment.Status)
	return fmt.Sprintf(
		"%s <b>Appointment %s</b>\n\n"+
			"👨‍🏫 Professor: %s\n"+
			"📅 Date: %s\n"+
			"🕐 Time: %s",
		status.Emoji,
		status.Text,
		html.EscapeString(professor.Name),
		formatDate(appointment.StartTime),
		formatTimeRange(appointment.StartTime, appointment.EndTime),
	)
}

func reminderText(counterpart *model.User, appointment *model.Appointment) string {
	return fmt.Sprintf(
		"🔔 <b>Upcoming appointment</b>\n\n"+
			"👤 With: %s\n"+
			"📅 Date: %s\n"+
			"🕐 Time: %s",
		html.EscapeString(counterpart.Name),
		formatDate(appointment.StartTime),
		formatTimeRange(appointment.StartTime, appointment.EndTime),
	)
}

// AgendaText lists appointments one per line, in the given order.
func AgendaText(appointments []*model.Appointment) string {
	var b strings.Builder
	b.WriteString("📅 <b>Upcoming appointments</b>\n")

	for _, appointment := range appointments {
		status := displayStatus(appointment.Status)
		fmt.Fprintf(&b, "\n%s %s, %s (%s)",
			status.Emoji,
			formatDate(appointment.StartTime),
			formatTimeRange(appointment.StartTime, appointment.EndTime),
			status.Text,
		)
		if appointment.Professor != nil {
			fmt.Fprintf(&b, " with %s", html.EscapeString(appointment.Professor.Name))
		}
	}

	return b.String()
}
