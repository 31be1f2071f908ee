package vectorstore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/castela/ragpipe/internal/retry"
)

// upsertBatchSize caps the number of points sent in one Upsert call.
const upsertBatchSize = 100

// defaultSource is recorded when a caller supplies no metadata.
const defaultSource = "unknown"

// Config holds the connection settings for the Qdrant store.
type Config struct {
	Addr       string // gRPC address, host:port
	Collection string
	MaxRetries int // provisioning attempts before giving up
}

// collectionsAPI is the slice of the Qdrant collections client we use.
type collectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// pointsAPI is the slice of the Qdrant points client we use.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
}

// QdrantStore owns one named Qdrant collection over a gRPC connection.
// It is not safe for concurrent use.
type QdrantStore struct {
	conn        *grpc.ClientConn
	collections collectionsAPI
	points      pointsAPI
	collection  string
	addr        string
	sleep       retry.SleepFunc
}

// Connect dials Qdrant and provisions the collection for vectors of the
// given dimensionality. Provisioning is retried with exponential backoff
// because the service may still be starting up; exhausting the retries
// fails with a *ConnectError carrying the last underlying failure.
func Connect(ctx context.Context, cfg Config, dims int) (*QdrantStore, error) {
	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", cfg.Addr, err)
	}

	s := &QdrantStore{
		conn:        conn,
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
		collection:  cfg.Collection,
		addr:        cfg.Addr,
	}

	if err := s.provision(ctx, dims, cfg.MaxRetries); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// provision ensures the collection exists, retrying while the service warms
// up. Attempt n waits 2^n seconds before the next attempt.
func (s *QdrantStore) provision(ctx context.Context, dims, maxRetries int) error {
	policy := retry.DefaultPolicy()
	if maxRetries > 0 {
		policy.MaxAttempts = maxRetries
	}

	err := retry.Do(ctx, policy, s.sleep, func() error {
		return s.ensureCollection(ctx, dims)
	})
	if err != nil {
		return &ConnectError{Addr: s.addr, Attempts: policy.MaxAttempts, Err: err}
	}
	return nil
}

// ensureCollection creates the collection if it does not exist. Qdrant never
// vectorizes payloads itself, so vectors are always supplied by the caller.
func (s *QdrantStore) ensureCollection(ctx context.Context, dims int) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}

	log.Debug("Created collection", "name", s.collection, "dims", dims)
	return nil
}

func (s *QdrantStore) collectionExists(ctx context.Context) (bool, error) {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return true, nil
		}
	}
	return false, nil
}

// AddDocuments inserts one point per (text, vector) pair in input order and
// returns the assigned ids. Insertion is not transactional across batches:
// a failure partway through leaves earlier batches inserted.
func (s *QdrantStore) AddDocuments(ctx context.Context, texts []string, vectors [][]float32, metadata []Metadata) ([]string, error) {
	if len(texts) != len(vectors) {
		return nil, fmt.Errorf("%w: %d texts, %d vectors", ErrMismatchedInputs, len(texts), len(vectors))
	}
	if len(texts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(texts))
	points := make([]*pb.PointStruct, len(texts))
	for i := range texts {
		meta := Metadata{Source: defaultSource, ChunkIndex: i}
		if i < len(metadata) {
			meta = metadata[i]
			if meta.Source == "" {
				meta.Source = defaultSource
			}
		}

		ids[i] = uuid.NewString()
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: ids[i]},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vectors[i]},
				},
			},
			Payload: map[string]*pb.Value{
				"content":     {Kind: &pb.Value_StringValue{StringValue: texts[i]}},
				"source":      {Kind: &pb.Value_StringValue{StringValue: meta.Source}},
				"chunk_index": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(meta.ChunkIndex)}},
			},
		}
	}

	wait := true
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
			CollectionName: s.collection,
			Wait:           &wait,
			Points:         points[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("upsert points %d-%d: %w", start, end-1, err)
		}
	}

	log.Debug("Added documents", "collection", s.collection, "count", len(ids))
	return ids, nil
}

// Search performs nearest-neighbor lookup and returns up to topK results
// ordered by descending similarity.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}

	hits := resp.GetResult()
	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		payload := hit.GetPayload()
		score := float64(hit.GetScore())
		results = append(results, SearchResult{
			Content:    payload["content"].GetStringValue(),
			Source:     payload["source"].GetStringValue(),
			ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
			Score:      score,
			Distance:   1 - score,
		})
	}
	return results, nil
}

// DeleteCollection destroys the collection. Missing collections are a no-op,
// so the call is idempotent.
func (s *QdrantStore) DeleteCollection(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection}); err != nil {
		return fmt.Errorf("delete collection %s: %w", s.collection, err)
	}
	log.Debug("Deleted collection", "name", s.collection)
	return nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
