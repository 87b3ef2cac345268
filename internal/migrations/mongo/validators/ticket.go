package validators

import "go.mongodb.org/mongo-driver/bson"

var EnrollmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "user_id"},
		"properties": bson.M{
			"_id":     integerID,
			"user_id": integerID,
		},
	},
}

var TicketTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "name", "price", "is_remote", "includes_hotel"},
		"properties": bson.M{
			"_id":            integerID,
			"name":           bson.M{"bsonType": "string", "minLength": 1},
			"price":          bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			"is_remote":      bson.M{"bsonType": "bool"},
			"includes_hotel": bson.M{"bsonType": "bool"},
		},
	},
}

var TicketValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "ticket_type_id", "enrollment_id", "status"},
		"properties": bson.M{
			"_id":            integerID,
			"ticket_type_id": integerID,
			"enrollment_id":  integerID,
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"RESERVED", "PAID"},
			},
		},
	},
}

var SessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "user_id", "token"},
		"properties": bson.M{
			"_id":     integerID,
			"user_id": integerID,
			"token":   bson.M{"bsonType": "string", "minLength": 1},
		},
	},
}
