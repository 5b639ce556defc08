package domain

// HistoryPageSize is the number of orders per order-history page.
const HistoryPageSize = 10

type Page struct {
	Orders []Order
	Number int
	Size   int
	Total  int
}

func (p Page) TotalPages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.TotalPages() }

func (p Page) PrevNumber() int { return p.Number - 1 }

func (p Page) NextNumber() int { return p.Number + 1 }

// Offset is the number of rows skipped before page number n.
func Offset(n, size int) int {
	if n < 1 {
		n = 1
	}
	return (n - 1) * size
}
