package ledger

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/Rhymond/go-money"
)

var renderFuncs = template.FuncMap{
	"date":   func(t time.Time) string { return t.Format(DateFormat) },
	"amount": formatAmount,
	"cost":   formatCost,
}

var (
	txnTpl     = template.Must(template.New("transaction").Funcs(renderFuncs).Parse(transactionTemplate))
	balanceTpl = template.Must(template.New("balance").Funcs(renderFuncs).Parse(balanceTemplate))
	priceTpl   = template.Must(template.New("price").Funcs(renderFuncs).Parse(priceTemplate))
)

// formatAmount renders an amount with the ISO fraction digits of its
// currency. Commodity symbols that are not ISO currencies keep the exact
// decimal representation, since security quantities must not be rounded.
func formatAmount(v interface{}) string {
	var a Amount
	switch x := v.(type) {
	case Amount:
		a = x
	case *Amount:
		if x == nil {
			return ""
		}
		a = *x
	default:
		return fmt.Sprint(v)
	}

	if cur := money.GetCurrency(a.Currency); cur != nil && a.Number.Exponent() > int32(-cur.Fraction) {
		return a.Number.StringFixed(int32(cur.Fraction)) + " " + a.Currency
	}
	return a.Number.String() + " " + a.Currency
}

func formatCost(c *Cost) string {
	if c == nil {
		return ""
	}
	unit := formatAmount(Amount{Number: c.Number, Currency: c.Currency})
	if c.Date.IsZero() {
		return "{" + unit + "}"
	}
	return "{" + unit + ", " + c.Date.Format(DateFormat) + "}"
}

// Render writes directives as beancount text in the given order.
func Render(w io.Writer, directives []Directive) error {
	for _, d := range directives {
		var err error
		switch v := d.(type) {
		case *Transaction:
			err = txnTpl.Execute(w, v)
		case *Balance:
			err = balanceTpl.Execute(w, v)
		case *Price:
			err = priceTpl.Execute(w, v)
		default:
			err = fmt.Errorf("unknown directive type %T", d)
		}
		if err != nil {
			return fmt.Errorf("failed to render directive: %w", err)
		}
	}

	return nil
}
