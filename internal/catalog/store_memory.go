package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Product
}

func NewMemStore() *MemStore {
	s := &MemStore{m: map[string]Product{}}
	for _, p := range seedProducts() {
		s.m[p.ID] = p
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func seedProducts() []Product {
	gloveSizes := func(stock int) []SizeStock {
		out := make([]SizeStock, 0, 6)
		for _, sz := range []string{"6", "7", "8", "9", "10", "11"} {
			out = append(out, SizeStock{Size: sz, Stock: stock})
		}
		return out
	}

	return []Product{
		{
			ID:          "g1",
			Name:        "Pro Grip Elite",
			Description: "Match glove with negative cut and latex palm",
			Price:       decimal.NewFromFloat(79.90),
			Image:       "/img/gloves/pro-grip-elite.webp",
			Category:    "gloves",
			Tag:         "pro",
			Active:      true,
			Sizes:       gloveSizes(5),
			Tags:        []string{"pro", "match", "negative-cut"},
		},
		{
			ID:          "g2",
			Name:        "Junior Academy",
			Description: "Durable training glove for young keepers",
			Price:       decimal.NewFromFloat(29.90),
			Image:       "/img/gloves/junior-academy.webp",
			Category:    "gloves",
			Tag:         "junior",
			Active:      true,
			Sizes:       gloveSizes(12),
			Tags:        []string{"junior", "training"},
		},
		{
			ID:          "g3",
			Name:        "Total Control Roll",
			Description: "Roll finger cut, all-weather latex",
			Price:       decimal.NewFromFloat(54.50),
			Image:       "/img/gloves/total-control-roll.webp",
			Category:    "gloves",
			Tag:         "pro",
			Active:      true,
			Sizes:       gloveSizes(8),
			Tags:        []string{"pro", "all-weather", "roll-finger"},
		},
		{
			ID:          "g4",
			Name:        "Winter Training",
			Description: "Fleece-lined glove for cold sessions",
			Price:       decimal.NewFromFloat(39.00),
			Image:       "/img/gloves/winter-training.webp",
			Category:    "gloves",
			Tag:         "training",
			Active:      false,
			Sizes:       gloveSizes(0),
			Tags:        []string{"training", "winter"},
		},
	}
}
