package scouting

// Field names a numeric or boolean column of a Record. Field values are the
// column names used by the store and the JSON views.
type Field string

const (
	FieldStartingPos  Field = "startingpos"
	FieldMobility     Field = "mobility"
	FieldDefending    Field = "defending"
	FieldGroundPickup Field = "groundpickup"
	FieldFeeder       Field = "feeder"

	FieldAutonCoral1   Field = "autoncoral1"
	FieldAutonCoral2   Field = "autoncoral2"
	FieldAutonCoral3   Field = "autoncoral3"
	FieldAutonCoral4   Field = "autoncoral4"
	FieldAutonAlgaePro Field = "autonalgaepro"
	FieldAutonAlgaeNet Field = "autonalgaenet"

	FieldTeleCoral1   Field = "telecoral1"
	FieldTeleCoral2   Field = "telecoral2"
	FieldTeleCoral3   Field = "telecoral3"
	FieldTeleCoral4   Field = "telecoral4"
	FieldTeleAlgaePro Field = "telealgaepro"
	FieldTeleAlgaeNet Field = "telealgaenet"

	FieldHumanPlayer Field = "humanplayer"
)

// StatFields lists, in column order, every field that takes part in averages
// and medians.
var StatFields = []Field{
	FieldMobility,
	FieldDefending,
	FieldStartingPos,
	FieldAutonCoral1,
	FieldAutonCoral2,
	FieldAutonCoral3,
	FieldAutonCoral4,
	FieldAutonAlgaePro,
	FieldAutonAlgaeNet,
	FieldTeleCoral1,
	FieldTeleCoral2,
	FieldTeleCoral3,
	FieldTeleCoral4,
	FieldTeleAlgaePro,
	FieldTeleAlgaeNet,
	FieldHumanPlayer,
	FieldGroundPickup,
	FieldFeeder,
}

// Value returns the numeric value of f on r, with booleans as 0 or 1.
// ok is false for a field Record does not carry.
func (r Record) Value(f Field) (v int, ok bool) {
	switch f {
	case FieldStartingPos:
		return r.StartingPos, true
	case FieldMobility:
		return b2i(r.Mobility), true
	case FieldDefending:
		return b2i(r.Defending), true
	case FieldGroundPickup:
		return b2i(r.GroundPickup), true
	case FieldFeeder:
		return b2i(r.Feeder), true
	case FieldAutonCoral1:
		return r.AutonCoral1, true
	case FieldAutonCoral2:
		return r.AutonCoral2, true
	case FieldAutonCoral3:
		return r.AutonCoral3, true
	case FieldAutonCoral4:
		return r.AutonCoral4, true
	case FieldAutonAlgaePro:
		return r.AutonAlgaePro, true
	case FieldAutonAlgaeNet:
		return r.AutonAlgaeNet, true
	case FieldTeleCoral1:
		return r.TeleCoral1, true
	case FieldTeleCoral2:
		return r.TeleCoral2, true
	case FieldTeleCoral3:
		return r.TeleCoral3, true
	case FieldTeleCoral4:
		return r.TeleCoral4, true
	case FieldTeleAlgaePro:
		return r.TeleAlgaePro, true
	case FieldTeleAlgaeNet:
		return r.TeleAlgaeNet, true
	case FieldHumanPlayer:
		return r.HumanPlayer, true
	}
	return 0, false
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
