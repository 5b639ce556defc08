package httpapi

import (
	"net/url"
	"strconv"
	"strings"

	"food-ordering/internal/domain"
)

// orderForm holds a parsed order submission along with the raw values
// needed to redisplay the form.
type orderForm struct {
	Submission domain.OrderSubmission
	Errors     *domain.ValidationError

	selected map[int]bool
	counts   map[int]string
}

func newOrderForm() *orderForm {
	return &orderForm{
		Errors:   domain.NewValidationError(),
		selected: map[int]bool{},
		counts:   map[int]string{},
	}
}

func (f *orderForm) IsSelected(dishID int) bool { return f.selected[dishID] }

func (f *orderForm) CountFor(dishID int) string {
	if raw, ok := f.counts[dishID]; ok && raw != "" {
		return raw
	}
	return "1"
}

// parseOrderForm accepts repeated "dishes" values plus one of three count
// encodings: a parallel repeated "counts" list, one "count_<id>" field per
// dish, or one "counts_<i>" field per selected position. A blank count means
// 1. Selecting no dish is allowed and yields an order without lines.
func parseOrderForm(values url.Values) *orderForm {
	form := newOrderForm()
	form.Submission.Contact = domain.Contact{
		Name:    values.Get("customer_name"),
		Email:   values.Get("customer_email"),
		Phone:   values.Get("customer_phone"),
		Address: values.Get("customer_address"),
	}

	rawDishes := values["dishes"]
	rawCounts, parallel := values["counts"]

	for i, rawID := range rawDishes {
		dishID, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil || dishID <= 0 {
			form.Errors.Add("dishes", "Select a valid choice. "+rawID+" is not one of the available choices.")
			continue
		}

		var rawCount string
		if parallel {
			if i < len(rawCounts) {
				rawCount = rawCounts[i]
			}
		} else if byID := values["count_"+strconv.Itoa(dishID)]; len(byID) > 0 {
			rawCount = byID[0]
		} else {
			rawCount = values.Get("counts_" + strconv.Itoa(i))
		}
		rawCount = strings.TrimSpace(rawCount)

		count := 1
		if rawCount != "" {
			count, err = strconv.Atoi(rawCount)
			if err != nil {
				form.Errors.Add("counts", "Enter a whole number.")
				count = 0
			}
		}

		form.selected[dishID] = true
		form.counts[dishID] = rawCount
		form.Submission.DishIDs = append(form.Submission.DishIDs, dishID)
		form.Submission.Counts = append(form.Submission.Counts, count)
	}
	return form
}
