package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryRepository is an in-process product catalog. It keeps the full
// product list in memory and evaluates the predicate vocabulary directly,
// with a stable default ordering so pagination never skips or duplicates.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make([]Product, 0)}
}

func (r *MemoryRepository) UpsertProducts(products ...Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		replaced := false
		for i := range r.products {
			if r.products[i].Id == p.Id {
				r.products[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			r.products = append(r.products, p)
		}
	}
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *MemoryRepository) Query(ctx context.Context, q *Query, page int, pageSize int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := make([]Product, 0, len(r.products))
	for i := range r.products {
		if matches(&r.products[i], q) {
			matched = append(matched, r.products[i])
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, sortOf(q))

	total := len(matched)
	if page < 1 {
		page = 1
	}
	from := (page - 1) * pageSize
	if from >= total {
		return &Page{Items: []Product{}, Total: total}, nil
	}
	to := from + pageSize
	if to > total {
		to = total
	}
	return &Page{Items: matched[from:to], Total: total}, nil
}

func (r *MemoryRepository) DistinctValues(ctx context.Context, column string, q *Query) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range r.products {
		if !matches(&r.products[i], q) {
			continue
		}
		for _, v := range columnValues(&r.products[i], column) {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values, nil
}

func sortOf(q *Query) string {
	if q == nil {
		return ""
	}
	return q.Sort
}

func sortProducts(items []Product, by string) {
	switch by {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Created.After(items[j].Created) })
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	}
}

func matches(p *Product, q *Query) bool {
	if q == nil {
		return true
	}
	if q.Search != "" && !matchesSearch(p, q.Search) {
		return false
	}
	for _, pred := range q.Strings {
		if !matchesString(p, &pred) {
			return false
		}
	}
	for _, pred := range q.Ranges {
		if !matchesRange(p, &pred) {
			return false
		}
	}
	for _, pred := range q.Numbers {
		if !matchesNumber(p, &pred) {
			return false
		}
	}
	for _, flag := range q.Flags {
		if !flagValue(p, flag) {
			return false
		}
	}
	if q.Fitment != nil && !matchesFitment(p, q.Fitment) {
		return false
	}
	return true
}

func matchesSearch(p *Product, text string) bool {
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Sku), needle)
}

func matchesString(p *Product, pred *StringPredicate) bool {
	if len(pred.Values) == 0 {
		return true
	}
	if pred.Column == ColTags || pred.Column == ColDrivetrain {
		// overlap, not contains-all
		for _, want := range pred.Values {
			for _, have := range columnValues(p, pred.Column) {
				if strings.EqualFold(want, have) {
					return true
				}
			}
		}
		return false
	}
	value := scalarColumn(p, pred.Column)
	for _, want := range pred.Values {
		if strings.EqualFold(want, value) {
			return true
		}
	}
	return false
}

func matchesRange(p *Product, pred *RangePredicate) bool {
	value, ok := numericColumn(p, pred.Column)
	if !ok {
		return false
	}
	if pred.HasMin && value < pred.Min {
		return false
	}
	if pred.HasMax && value > pred.Max {
		return false
	}
	return true
}

func matchesNumber(p *Product, pred *NumberPredicate) bool {
	value, ok := numericColumn(p, pred.Column)
	if !ok {
		return false
	}
	if pred.AndAbove {
		return value >= pred.Value
	}
	return value == pred.Value
}

func matchesFitment(p *Product, pred *FitmentPredicate) bool {
	for _, f := range p.Fitments {
		if fitmentContains(&f, pred) {
			return true
		}
	}
	return false
}

func fitmentContains(f *Fitment, pred *FitmentPredicate) bool {
	if pred.Year != "" && !strings.EqualFold(f.Year, pred.Year) {
		return false
	}
	if pred.Make != "" && !strings.EqualFold(f.Make, pred.Make) {
		return false
	}
	if pred.Model != "" && !strings.EqualFold(f.Model, pred.Model) {
		return false
	}
	if pred.Trim != "" && !strings.EqualFold(f.Trim, pred.Trim) {
		return false
	}
	if pred.Drivetrain != "" && !strings.EqualFold(f.Drivetrain, pred.Drivetrain) {
		return false
	}
	return true
}

func scalarColumn(p *Product, column string) string {
	switch column {
	case ColBrand:
		return p.Brand
	case ColCategory:
		return p.Category
	case ColTireSize:
		return p.TireSize
	case ColWheelDiameter:
		return formatNumber(p.WheelDiameter)
	case ColLiftHeight:
		return formatNumber(p.LiftHeight)
	}
	return ""
}

func columnValues(p *Product, column string) []string {
	switch column {
	case ColTags:
		return p.Tags
	case ColDrivetrain:
		values := make([]string, 0, len(p.Fitments))
		for _, f := range p.Fitments {
			if f.Drivetrain != "" {
				values = append(values, f.Drivetrain)
			}
		}
		return values
	default:
		if v := scalarColumn(p, column); v != "" {
			return []string{v}
		}
		return nil
	}
}

func numericColumn(p *Product, column string) (float64, bool) {
	switch column {
	case ColPrice:
		return p.Price, true
	case ColWheelDiameter:
		return p.WheelDiameter, p.WheelDiameter != 0
	case ColLiftHeight:
		return p.LiftHeight, true
	}
	return 0, false
}

func flagValue(p *Product, column string) bool {
	switch column {
	case ColOnSale:
		return p.OnSale
	case ColFreeShipping:
		return p.FreeShipping
	case ColComboOnly:
		return p.ComboOnly
	}
	return false
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
