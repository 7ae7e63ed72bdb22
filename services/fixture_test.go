package services

import (
	"context"
	"time"

	"casri/models"
	"casri/store/memory"
)

var testLoc = time.FixedZone("EAT", 3*60*60)

// testNow is 2024-03-15 14:00 EAT.
var testNow = time.Date(2024, 3, 15, 14, 0, 0, 0, testLoc)

func fixedCalendar() Calendar {
	return Calendar{Loc: testLoc, Now: func() time.Time { return testNow }}
}

type fixture struct {
	products    *memory.Products
	histories   *memory.Histories
	users       *memory.Users
	logs        *memory.FinancialLogs
	liabilities *memory.Liabilities
	sessions    *memory.Sessions
	tx          *memory.Tx
	cal         Calendar

	productService   *ProductService
	financialService *FinancialService
	liabilityService *LiabilityService
	historyService   *HistoryService
}

func newFixture() *fixture {
	f := &fixture{
		products:    &memory.Products{},
		histories:   &memory.Histories{},
		users:       &memory.Users{},
		logs:        &memory.FinancialLogs{},
		liabilities: &memory.Liabilities{},
		sessions:    &memory.Sessions{},
		tx:          &memory.Tx{},
		cal:         fixedCalendar(),
	}
	f.productService = NewProductService(f.products, f.histories, f.users, f.tx, f.cal)
	f.financialService = NewFinancialService(f.logs, f.products, f.cal)
	f.liabilityService = NewLiabilityService(f.liabilities, f.productService, f.tx, f.cal)
	f.historyService = NewHistoryService(f.histories, f.cal)
	return f
}

func (f *fixture) addUser(username string, role models.Role) models.User {
	u := models.User{Username: username, Role: role}
	if err := f.users.Insert(context.Background(), &u); err != nil {
		panic(err)
	}
	return u
}

func num(v float64) models.Number {
	return models.NewNumber(v)
}

// text builds a Number the way a JSON string field decodes.
func text(s string) models.Number {
	var n models.Number
	if err := n.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
		panic(err)
	}
	return n
}
