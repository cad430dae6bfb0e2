// Package mqtt provides the hub-facing MQTT transport for the AVR driver.
//
// This package wraps paho.mqtt.golang with:
//
//   - Connection management with auto-reconnect and exponential backoff
//   - Last Will and Testament on the driver status topic
//   - Subscription tracking with automatic restoration on reconnect
//   - Panic recovery around message handlers
//   - Topic builders for the remotehub/{driver_id}/... hierarchy
//
// # Topic hierarchy
//
//	remotehub/{driver_id}/status                driver online/offline (retained, LWT)
//	remotehub/{driver_id}/health                periodic health report (retained)
//	remotehub/{driver_id}/entities/available    entity set announcement (retained)
//	remotehub/{driver_id}/entities/update       entity state updates (events)
//	remotehub/{driver_id}/entities/subscribe    hub -> driver subscription requests
//	remotehub/{driver_id}/entities/unsubscribe  hub -> driver unsubscription requests
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Driver.ID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.EntitiesSubscribe(cfg.Driver.ID)
//	err = client.Subscribe(topic, 1, func(topic string, payload []byte) error {
//	    // handle subscription event
//	    return nil
//	})
package mqtt
