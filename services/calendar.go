package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
	"casri/utils"
)

// Calendar fixes the clock and the location whose midnight splits days.
type Calendar struct {
	Loc *time.Location
	Now func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Loc: loc, Now: time.Now}
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.location())
	}
	return c.Now().In(c.location())
}

func (c Calendar) location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// Today is the day range containing now.
func (c Calendar) Today() utils.DayRange {
	return utils.Day(c.now(), c.location())
}

func (c Calendar) queryDate(token string) (utils.DayRange, error) {
	r, err := utils.ParseQueryDate(token, c.location())
	if err != nil {
		return utils.DayRange{}, invalid("date", "Invalid date format. Use YYYY-MM-DD")
	}
	return r, nil
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID       primitive.ObjectID
	Username string
	Role     models.Role
}

// CanModifyProduct allows admins everything and employees their own sales.
func CanModifyProduct(a Actor, p models.Product) bool {
	return a.Role.IsAdmin() || (!a.ID.IsZero() && a.ID == p.User)
}
