package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_id",
			"date",
			"available_units",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			// The conditional decrement guards this in application logic;
			// the schema backstops it so a bug can never store a negative
			// counter.
			"available_units": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},
		},
	},
}
