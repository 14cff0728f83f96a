package coordinator

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/fabricpb"
)

// resolvePartitions lists the table's objects and describes each as one
// partition. A table maps onto the objects under "<table>/"; a name that is
// itself a Parquet object resolves to a single partition.
func resolvePartitions(ctx context.Context, bkt objstore.Bucket, table string) ([]*fabricpb.PartitionDesc, error) {
	if strings.HasSuffix(table, ".parquet") {
		attrs, err := bkt.Attributes(ctx, table)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving table object %s", table)
		}
		return []*fabricpb.PartitionDesc{{ID: table, Location: table, Size_: attrs.Size}}, nil
	}

	var names []string
	prefix := strings.TrimSuffix(table, "/") + "/"
	err := bkt.Iter(ctx, prefix, func(name string) error {
		if strings.HasSuffix(name, ".parquet") {
			names = append(names, name)
		}
		return nil
	}, objstore.WithRecursiveIter())
	if err != nil {
		return nil, errors.Wrapf(err, "listing table %s", table)
	}
	sort.Strings(names)

	parts := make([]*fabricpb.PartitionDesc, 0, len(names))
	for _, name := range names {
		attrs, err := bkt.Attributes(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving partition %s", name)
		}
		parts = append(parts, &fabricpb.PartitionDesc{ID: name, Location: name, Size_: attrs.Size})
	}
	return parts, nil
}

// Split strategies.
const (
	// SplitRoundRobin deals partitions out in listing order.
	SplitRoundRobin = "round-robin"
	// SplitSizeBalanced assigns each partition to the least loaded
	// combiner, largest partitions first.
	SplitSizeBalanced = "size-balanced"
)

// splitPartitions divides parts across n combiner subsets. Subsets may be
// empty when there are fewer partitions than combiners.
func splitPartitions(parts []*fabricpb.PartitionDesc, n int, strategy string) [][]*fabricpb.PartitionDesc {
	subsets := make([][]*fabricpb.PartitionDesc, n)
	if strategy != SplitSizeBalanced {
		for i, p := range parts {
			subsets[i%n] = append(subsets[i%n], p)
		}
		return subsets
	}

	bySize := make([]*fabricpb.PartitionDesc, len(parts))
	copy(bySize, parts)
	sort.SliceStable(bySize, func(i, j int) bool { return bySize[i].Size_ > bySize[j].Size_ })

	loads := make([]int64, n)
	for _, p := range bySize {
		least := 0
		for i := 1; i < n; i++ {
			if loads[i] < loads[least] {
				least = i
			}
		}
		subsets[least] = append(subsets[least], p)
		loads[least] += p.Size_
	}
	return subsets
}
