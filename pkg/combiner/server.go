package combiner

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// Execute implements fabricpb.CombinerServer. The terminal trailer always
// carries the outcome; a permanent partition failure surfaces as a FAILED
// or PARTIAL trailer rather than a stream error so the coordinator can
// still read the failed partition set.
func (c *Combiner) Execute(req *fabricpb.ExecuteRequest, stream fabricpb.Combiner_ExecuteServer) error {
	ctx := stream.Context()

	plan, err := queryplan.Unmarshal(req.Plan)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	rs, err := c.ExecuteQuery(ctx, &Request{
		QueryID:    req.QueryID,
		Plan:       plan,
		Partitions: req.Partitions,
		Options:    c.cfg.optionsFrom(req.Options),
	})
	if err != nil {
		if invoke.Classify(err) == invoke.ClassPermanentPlan {
			return status.Error(codes.InvalidArgument, err.Error())
		}
		return err
	}
	defer rs.Close()

	for {
		partitionID, rec, err := rs.ReadTagged(ctx)
		if err != nil {
			if !errors.Is(err, executor.EOF) && rs.Trailer() == nil {
				return err
			}
			break
		}
		if rec == nil {
			// Completion mark: an empty frame naming the partition.
			if err := stream.Send(&fabricpb.ResultFrame{PartitionID: partitionID}); err != nil {
				return err
			}
			continue
		}

		data, err := arrowio.Marshal(rec)
		rec.Release()
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		if err := stream.Send(&fabricpb.ResultFrame{Records: data, PartitionID: partitionID}); err != nil {
			return err
		}
	}

	trailer := rs.Trailer()
	if trailer == nil {
		// Stream ended without concluding, e.g. the call context died.
		return status.FromContextError(ctx.Err()).Err()
	}
	return stream.Send(&fabricpb.ResultFrame{Trailer: trailer})
}
