// Command mintcodes seeds registration codes into the database and prints
// them to stdout, one per line, for distribution to enrolling families.
// Codes passed as arguments are inserted verbatim; otherwise -n random
// codes are generated.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
	"github.com/colegiolink/enrollment/internal/enrollment/store/drivers/sqlite"
	"github.com/colegiolink/enrollment/pkg/cryptox"
	"github.com/colegiolink/enrollment/pkg/idx"
)

func main() {
	var (
		dbFile = flag.String("db", "enrollment.db", "path to the SQLite database file")
		count  = flag.Int("n", 1, "number of registration codes to mint")
	)
	flag.Parse()

	if *count < 1 {
		log.Fatalf("-n must be at least 1, got %d", *count)
	}

	st, err := sqlite.NewStore(*dbFile)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer st.Close()

	if err := st.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply database migrations: %v", err)
	}

	codes := flag.Args()
	if len(codes) == 0 {
		for i := 0; i < *count; i++ {
			code, err := cryptox.GenerateToken(6)
			if err != nil {
				log.Fatalf("failed to generate code: %v", err)
			}
			codes = append(codes, code)
		}
	}

	ctx := context.Background()
	for _, code := range codes {
		err := st.Codes().CreateCode(ctx, domain.RegistrationCode{
			ID:   idx.New().String(),
			Code: code,
		})
		if err != nil {
			log.Fatalf("failed to store code %q: %v", code, err)
		}

		fmt.Println(code)
	}
}
