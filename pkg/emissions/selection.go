package emissions

// SelectionCapacity is the number of countries that can be compared at once.
const SelectionCapacity = 2

// Country identifies a selected map region.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Selection is an insertion-ordered set of at most SelectionCapacity
// countries. The zero value is empty. Selection values are never modified in
// place; Select returns a new one.
type Selection struct {
	items []Country
}

// NewSelection selects each country in order.
func NewSelection(cs ...Country) Selection {
	var s Selection
	for _, c := range cs {
		s = s.Select(c.Code, c.Name)
	}
	return s
}

// Select adds code to the selection. Re-selecting a country is a no-op; at
// capacity the oldest country is evicted first.
func (s Selection) Select(code, name string) Selection {
	if s.Contains(code) {
		return s
	}
	items := make([]Country, 0, SelectionCapacity)
	items = append(items, s.items...)
	if len(items) >= SelectionCapacity {
		items = items[len(items)-SelectionCapacity+1:]
	}
	items = append(items, Country{Code: code, Name: name})
	return Selection{items: items}
}

func (s Selection) Contains(code string) bool {
	for _, c := range s.items {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Index returns the position of code, or -1.
func (s Selection) Index(code string) int {
	for i, c := range s.items {
		if c.Code == code {
			return i
		}
	}
	return -1
}

func (s Selection) Len() int { return len(s.items) }

func (s Selection) Full() bool { return len(s.items) == SelectionCapacity }

// Countries returns the selected countries, oldest first.
func (s Selection) Countries() []Country {
	out := make([]Country, len(s.items))
	copy(out, s.items)
	return out
}
