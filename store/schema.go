package store

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	number INTEGER PRIMARY KEY,
	blue1 INTEGER,
	blue2 INTEGER,
	blue3 INTEGER,
	red1 INTEGER,
	red2 INTEGER,
	red3 INTEGER
);

CREATE TABLE IF NOT EXISTS scouting (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	matchnum INTEGER NOT NULL,
	teamnum INTEGER NOT NULL,
	color TEXT,
	mobility BOOLEAN NOT NULL DEFAULT 0,
	defending BOOLEAN NOT NULL DEFAULT 0,
	startingpos INTEGER NOT NULL DEFAULT 1,
	autoncoral1 INTEGER NOT NULL DEFAULT 0,
	autoncoral2 INTEGER NOT NULL DEFAULT 0,
	autoncoral3 INTEGER NOT NULL DEFAULT 0,
	autoncoral4 INTEGER NOT NULL DEFAULT 0,
	autonalgaepro INTEGER NOT NULL DEFAULT 0,
	autonalgaenet INTEGER NOT NULL DEFAULT 0,
	telecoral1 INTEGER NOT NULL DEFAULT 0,
	telecoral2 INTEGER NOT NULL DEFAULT 0,
	telecoral3 INTEGER NOT NULL DEFAULT 0,
	telecoral4 INTEGER NOT NULL DEFAULT 0,
	telealgaepro INTEGER NOT NULL DEFAULT 0,
	telealgaenet INTEGER NOT NULL DEFAULT 0,
	humanplayer INTEGER NOT NULL DEFAULT 0,
	endgame TEXT,
	groundpickup BOOLEAN NOT NULL DEFAULT 0,
	feeder BOOLEAN NOT NULL DEFAULT 0,
	notes TEXT,
	scoutername TEXT,
	FOREIGN KEY (matchnum) REFERENCES matches (number),
	UNIQUE (matchnum, teamnum)
);

CREATE INDEX IF NOT EXISTS idx_scouting_teamnum ON scouting (teamnum, matchnum);
`

// recordColumns selects a scouting row in scouting.Record shape. Text
// columns may be NULL in databases written by older tooling.
const recordColumns = `matchnum, teamnum, COALESCE(color, '') AS color,
	mobility, defending, startingpos,
	autoncoral1, autoncoral2, autoncoral3, autoncoral4,
	autonalgaepro, autonalgaenet,
	telecoral1, telecoral2, telecoral3, telecoral4,
	telealgaepro, telealgaenet,
	humanplayer, COALESCE(endgame, '') AS endgame, groundpickup, feeder,
	COALESCE(notes, '') AS notes, COALESCE(scoutername, '') AS scoutername`

// upsertRecordSQL replaces every column of an existing (matchnum, teamnum)
// row. The UNIQUE constraint decides between insert and replace, so two
// writers racing on one key still end with a single row.
const upsertRecordSQL = `INSERT INTO scouting (
	matchnum, teamnum, color, mobility, defending, startingpos,
	autoncoral1, autoncoral2, autoncoral3, autoncoral4,
	autonalgaepro, autonalgaenet, telecoral1, telecoral2,
	telecoral3, telecoral4, telealgaepro, telealgaenet,
	humanplayer, endgame, groundpickup, feeder, notes, scoutername
) VALUES (
	:matchnum, :teamnum, :color, :mobility, :defending, :startingpos,
	:autoncoral1, :autoncoral2, :autoncoral3, :autoncoral4,
	:autonalgaepro, :autonalgaenet, :telecoral1, :telecoral2,
	:telecoral3, :telecoral4, :telealgaepro, :telealgaenet,
	:humanplayer, :endgame, :groundpickup, :feeder, :notes, :scoutername
)
ON CONFLICT (matchnum, teamnum) DO UPDATE SET
	color = excluded.color,
	mobility = excluded.mobility,
	defending = excluded.defending,
	startingpos = excluded.startingpos,
	autoncoral1 = excluded.autoncoral1,
	autoncoral2 = excluded.autoncoral2,
	autoncoral3 = excluded.autoncoral3,
	autoncoral4 = excluded.autoncoral4,
	autonalgaepro = excluded.autonalgaepro,
	autonalgaenet = excluded.autonalgaenet,
	telecoral1 = excluded.telecoral1,
	telecoral2 = excluded.telecoral2,
	telecoral3 = excluded.telecoral3,
	telecoral4 = excluded.telecoral4,
	telealgaepro = excluded.telealgaepro,
	telealgaenet = excluded.telealgaenet,
	humanplayer = excluded.humanplayer,
	endgame = excluded.endgame,
	groundpickup = excluded.groundpickup,
	feeder = excluded.feeder,
	notes = excluded.notes,
	scoutername = excluded.scoutername`

const upsertScheduleSQL = `INSERT INTO matches (number, blue1, blue2, blue3, red1, red2, red3)
VALUES (:number, :blue1, :blue2, :blue3, :red1, :red2, :red3)
ON CONFLICT (number) DO UPDATE SET
	blue1 = excluded.blue1,
	blue2 = excluded.blue2,
	blue3 = excluded.blue3,
	red1 = excluded.red1,
	red2 = excluded.red2,
	red3 = excluded.red3`
