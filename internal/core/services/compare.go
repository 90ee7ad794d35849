package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// compareK is the number of hits fetched per program.
const compareK = 3

// Compare finds the best chunk for each program on one aspect.
func (s *SearchService) Compare(ctx context.Context, programs []string, aspect string) (*domain.Comparison, error) {
	if aspect == "" {
		aspect = domain.AspectFee
	}
	var filter domain.ChunkType
	switch aspect {
	case domain.AspectFee:
		filter = domain.ChunkTypeFee
	case domain.AspectProfile:
		filter = domain.ChunkTypeOccupationalProfile
	case domain.AspectCurriculum:
	default:
		return nil, fmt.Errorf("%w: unknown aspect %q", domain.ErrInvalidInput, aspect)
	}
	if len(programs) == 0 {
		return nil, fmt.Errorf("%w: no programs to compare", domain.ErrInvalidInput)
	}

	cmp := &domain.Comparison{Aspect: aspect}
	for _, program := range programs {
		program = strings.TrimSpace(program)
		results, err := s.Search(ctx, program+" "+aspect, domain.SearchOptions{K: compareK, TypeFilter: filter})
		if err != nil {
			return nil, fmt.Errorf("compare %q: %w", program, err)
		}
		match := domain.ProgramMatch{Program: program}
		if len(results) > 0 {
			match.Found = true
			match.Result = results[0]
		}
		cmp.Matches = append(cmp.Matches, match)
	}

	cmp.Summary = summarise(cmp)
	return cmp, nil
}

// summarise names the cheapest and most expensive programs for fee
// comparisons.
func summarise(cmp *domain.Comparison) string {
	const done = "Comparación completada"
	if cmp.Aspect != domain.AspectFee {
		return done
	}

	type fee struct {
		program string
		amount  int64
	}
	var fees []fee
	for _, m := range cmp.Matches {
		if !m.Found {
			continue
		}
		if _, ok := m.Result.Chunk.Metadata[domain.MetaFeeAmount]; !ok {
			continue
		}
		fees = append(fees, fee{program: m.Program, amount: m.Result.Chunk.Int(domain.MetaFeeAmount)})
	}
	if len(fees) == 0 {
		return done
	}

	sort.SliceStable(fees, func(i, j int) bool { return fees[i].amount < fees[j].amount })
	cheapest, priciest := fees[0], fees[len(fees)-1]
	return fmt.Sprintf("Programa más económico: %s (%s)\nPrograma más costoso: %s (%s)",
		cheapest.program, domain.FormatFee(cheapest.amount),
		priciest.program, domain.FormatFee(priciest.amount))
}
