// Package influxdb writes simulator telemetry to InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health checks. Points are
// stamped with simulated time.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WritePointWithTime("device_transition",
//	    map[string]string{"device_id": id},
//	    map[string]any{"on": true},
//	    simNow)
//
// Writes are batched according to batch_size and flush_interval. Write
// errors are delivered asynchronously through SetOnError.
package influxdb
