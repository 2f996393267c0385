package accounts

import "github.com/cleared-dev/tally/internal/model"

// DefaultSecurityID is the currency the starter chart is held in.
const DefaultSecurityID = 1

// DefaultChart returns a starter account tree for a personal ledger.
func DefaultChart() []model.Account {
	return []model.Account{
		chartAccount(1, -1, model.AccountTypeAsset, "Assets"),
		chartAccount(2, 1, model.AccountTypeBank, "Checking"),
		chartAccount(3, 1, model.AccountTypeBank, "Savings"),
		chartAccount(4, 1, model.AccountTypeCash, "Cash"),
		chartAccount(5, -1, model.AccountTypeLiability, "Liabilities"),
		chartAccount(6, 5, model.AccountTypeLiability, "Credit Card"),
		chartAccount(7, -1, model.AccountTypeIncome, "Income"),
		chartAccount(8, 7, model.AccountTypeIncome, "Salary"),
		chartAccount(9, -1, model.AccountTypeExpense, "Expenses"),
		chartAccount(10, 9, model.AccountTypeExpense, "Food"),
		chartAccount(11, 10, model.AccountTypeExpense, "Groceries"),
		chartAccount(12, 10, model.AccountTypeExpense, "Restaurants"),
		chartAccount(13, 9, model.AccountTypeExpense, "Rent"),
		chartAccount(14, -1, model.AccountTypeEquity, "Equity"),
		chartAccount(15, 14, model.AccountTypeEquity, "Opening Balances"),
	}
}

func chartAccount(id, parent int64, t model.AccountType, name string) model.Account {
	a := model.NewAccount()
	a.AccountId = id
	a.ParentAccountId = parent
	a.SecurityId = DefaultSecurityID
	a.Type = t
	a.Name = name
	return a
}
