package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/iliyamo/film-dashboard/internal/credentials"
)

// OpenMongo connects to the document store described by sa and pings the
// primary.  The caller owns the returned client and must Disconnect it.
func OpenMongo(ctx context.Context, sa credentials.ServiceAccount) (*mongo.Client, error) {
	uri := sa.MongoURI()
	if sa.TLSCAFile != "" {
		// tlsCAFile is only understood by the URI parser.
		uri = withQuery(uri, "tls=true&tlsCAFile="+sa.TLSCAFile)
	}
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("filmdash").
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	if sa.Username != "" {
		cred := options.Credential{Username: sa.Username, Password: sa.Password, AuthSource: sa.AuthSource}
		opts.SetAuth(cred)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func withQuery(uri, q string) string {
	if strings.Contains(uri, "?") {
		return uri + "&" + q
	}
	rest := uri
	if i := strings.Index(uri, "://"); i >= 0 {
		rest = uri[i+3:]
	}
	if strings.Contains(rest, "/") {
		return uri + "?" + q
	}
	return uri + "/?" + q
}
