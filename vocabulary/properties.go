package vocabulary

// Sensor type to measured-property mapping.
//
// Keys are the sensor type strings as they appear in source datasets,
// values are the property instances defined in the ontology extensions.
// Several aliases map to the same property because vendors disagree on
// naming.
var sensorTypeToProperty = map[string]string{
	// Temperature sensors
	"temperatureSensor": BIGG.IRI("TemperatureProperty"),
	"temp":              BIGG.IRI("TemperatureProperty"),

	// CO2 sensors
	"co2Sensor": BIGG.IRI("CO2Property"),
	"co2":       BIGG.IRI("CO2Property"),

	// Humidity sensors
	"relativeHumiditySensor": BIGG.IRI("RelativeHumidityProperty"),
	"humidity":               BIGG.IRI("RelativeHumidityProperty"),
	"rh":                     BIGG.IRI("RelativeHumidityProperty"),

	// VOC sensors
	"vocSensor": BIGG.IRI("VOCProperty"),
	"voc":       BIGG.IRI("VOCProperty"),

	// Ambient sound sensors
	"ambientSoundSensor": BIGG.IRI("AmbientSoundProperty"),
	"ambsound":           BIGG.IRI("AmbientSoundProperty"),
	"sound":              BIGG.IRI("AmbientSoundProperty"),

	// Illuminance sensors
	"illuminanceSensor": BIGG.IRI("IlluminanceProperty"),
	"illum":             BIGG.IRI("IlluminanceProperty"),
	"light":             BIGG.IRI("IlluminanceProperty"),

	// Particulate matter sensors
	"pm1Sensor":   BIGG.IRI("PM1Property"),
	"pm1":         BIGG.IRI("PM1Property"),
	"pm2_5Sensor": BIGG.IRI("PM25Property"),
	"pm2.5":       BIGG.IRI("PM25Property"),
	"pm2_5":       BIGG.IRI("PM25Property"),
	"pm4Sensor":   BIGG.IRI("PM4Property"),
	"pm4":         BIGG.IRI("PM4Property"),
	"pm10Sensor":  BIGG.IRI("PM10Property"),
	"pm10":        BIGG.IRI("PM10Property"),

	// Occupancy/desk sensors
	"deskSensor": BIGG.IRI("OccupancyProperty"),
	"occupancy":  BIGG.IRI("OccupancyProperty"),
	"desk":       BIGG.IRI("OccupancyProperty"),
}

// MeasuredProperty returns the ontology property IRI measured by the given
// sensor type, or empty string if the sensor type is not supported.
func MeasuredProperty(sensorType string) string {
	return sensorTypeToProperty[sensorType]
}

// IsSupportedSensorType reports whether a sensor type has a measured
// property defined.
func IsSupportedSensorType(sensorType string) bool {
	_, ok := sensorTypeToProperty[sensorType]
	return ok
}

// SupportedSensorTypes returns all sensor type strings with a measured
// property defined. Order is unspecified.
func SupportedSensorTypes() []string {
	types := make([]string, 0, len(sensorTypeToProperty))
	for t := range sensorTypeToProperty {
		types = append(types, t)
	}
	return types
}
