// Package mqtt publishes simulator state to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained device state and non-retained event publishing
//   - Last Will and Testament (LWT) for offline detection
//
// The simulator only publishes; it never subscribes. Dashboards and other
// Gray Logic components observe a simulated site exactly as they would a
// real one.
//
// # Usage
//
//	topics := mqtt.Topics{Site: cfg.Site.ID}
//	client, err := mqtt.Connect(cfg.MQTT, topics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.PublishRetained(topics.DeviceState(id), payload)
package mqtt
