// Package health serves the liveness and readiness endpoints.
//
// Liveness (/health) only reports that the process is serving. Readiness
// (/ready) runs every registered check concurrently, each bounded by the
// checker timeout, and answers 503 when any of them fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("export_dir", health.DirWritable("/app/json_files"))
//	checker.RegisterCheck("vpn_setup_dir", health.DirExists("/pia-manual"))
//	mux.HandleFunc("/ready", checker.ReadinessHandler())
package health
