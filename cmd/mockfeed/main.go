// Command mockfeed serves synthetic versions of the three NDBC feeds so the
// pipeline can be exercised locally without touching ndbc.noaa.gov:
//
//	go run ./cmd/mockfeed -addr :8099
//	NDBC_BASE_URL=http://localhost:8099 DATABASE_DRIVER=sqlite go run ./cmd/ingest -historical
//
// Output is deterministic for a given seed so repeated ingest runs hit the
// upsert path with identical keys.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type station struct {
	id   string
	name string
	lat  string // station-table coordinate tokens, e.g. "34.700 N"
	lon  string
}

func main() {
	addr := flag.String("addr", ":8099", "listen address")
	perRegion := flag.Int("per-region", 4, "stations generated per ID prefix")
	seed := flag.Int64("seed", 1, "random seed for observation values")
	flag.Parse()

	stations := generateStations(*perRegion)
	now := time.Now().UTC().Truncate(time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("/stations/station_table.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, stationTable(stations))
	})
	mux.HandleFunc("/latest_obs/latest_obs.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, latestObs(stations, now, *seed))
	})
	mux.HandleFunc("/realtime2/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/realtime2/"), ".txt")
		for _, s := range stations {
			if s.id == id {
				fmt.Fprint(w, realtime(s, now, *seed))
				return
			}
		}
		http.NotFound(w, r)
	})

	log.Printf("mockfeed: serving %d stations on %s", len(stations), *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func generateStations(perRegion int) []station {
	prefixes := []string{"41", "42", "44", "45", "46", "51"}
	var out []station
	for pi, prefix := range prefixes {
		for i := 0; i < perRegion; i++ {
			lat := 20.0 + float64(pi*5) + float64(i)
			lon := 70.0 + float64(pi*10) + float64(i)
			out = append(out, station{
				id:   fmt.Sprintf("%s%03d", prefix, i+1),
				name: fmt.Sprintf("MOCK BUOY %s-%d", prefix, i+1),
				lat:  fmt.Sprintf("%.3f N", lat),
				lon:  fmt.Sprintf("%.3f W", lon),
			})
		}
	}
	return out
}

func stationTable(stations []station) string {
	var b strings.Builder
	b.WriteString("# STATION_ID | NAME | LOCATION\n")
	b.WriteString("|------------|------|---------|\n")
	for _, s := range stations {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.id, s.name, s.lat, s.lon)
	}
	// A ship report the parser should skip.
	b.WriteString("| SHIPX | UNDERWAY VESSEL | 10.000 N | 40.000 W |\n")
	return b.String()
}

func latestObs(stations []station, now time.Time, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	var b strings.Builder
	b.WriteString("#STN LAT LON YYYY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS TIDE\n")
	for _, s := range stations {
		fmt.Fprintf(&b, "%s 0.0 0.0 %s %s\n", s.id, timestampCols(now), obsCols(rng))
	}
	return b.String()
}

func realtime(s station, now time.Time, seed int64) string {
	// Seed per station so each history is stable but distinct.
	rng := rand.New(rand.NewSource(seed + int64(len(s.id)) + int64(s.id[len(s.id)-1])))
	var b strings.Builder
	b.WriteString("#YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS PTDY TIDE\n")
	for h := 0; h < 48; h++ {
		ts := now.Add(-time.Duration(h) * time.Hour)
		fmt.Fprintf(&b, "%s %s MM MM\n", timestampCols(ts), obsCols(rng))
	}
	return b.String()
}

func timestampCols(t time.Time) string {
	return fmt.Sprintf("%d %02d %02d %02d %02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute())
}

// obsCols renders WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP, with
// an occasional MM to exercise the missing-value path.
func obsCols(rng *rand.Rand) string {
	cols := []string{
		fmt.Sprintf("%d", rng.Intn(360)),
		fmt.Sprintf("%.1f", rng.Float64()*15),
		fmt.Sprintf("%.1f", rng.Float64()*20),
		fmt.Sprintf("%.1f", rng.Float64()*4),
		fmt.Sprintf("%d", 4+rng.Intn(10)),
		fmt.Sprintf("%.1f", 3+rng.Float64()*5),
		fmt.Sprintf("%d", rng.Intn(360)),
		fmt.Sprintf("%.1f", 990+rng.Float64()*40),
		fmt.Sprintf("%.1f", 5+rng.Float64()*25),
		fmt.Sprintf("%.1f", 5+rng.Float64()*25),
		fmt.Sprintf("%.1f", rng.Float64()*20),
	}
	if rng.Intn(5) == 0 {
		cols[rng.Intn(len(cols))] = "MM"
	}
	return strings.Join(cols, " ")
}
