package sqlinline

// QSchema is the full Postgres schema, applied by cmd/migrate. Statements are
// idempotent so the command can run on every deploy.
const QSchema = `--sql 158bc5e2-5f1b-4bb7-847f-3d1b48d5e5ba
create table if not exists weddings (
	id uuid primary key,
	owner_id text not null,
	title text not null,
	story text not null default '',
	event_date text not null default '',
	location text not null default '',
	cover_image_ref text not null default '',
	status text not null default 'active',
	created_at timestamptz not null default now()
);

create index if not exists idx_weddings_owner on weddings (owner_id, created_at desc);

create table if not exists gifts (
	id uuid primary key,
	wedding_id uuid not null references weddings (id),
	name text not null,
	description text not null default '',
	target_minor bigint not null check (target_minor > 0),
	currency text not null,
	image_ref text not null default '',
	status text not null default 'active',
	created_at timestamptz not null default now()
);

create index if not exists idx_gifts_wedding on gifts (wedding_id, created_at asc);

create table if not exists contributions (
	seq bigint generated always as identity,
	id uuid primary key,
	gift_id uuid not null references gifts (id),
	contributor_name text not null,
	amount_minor bigint not null check (amount_minor > 0),
	currency text not null,
	message text not null default '',
	country text not null default '',
	created_at timestamptz not null default now()
);

create index if not exists idx_contributions_gift on contributions (gift_id, seq asc);
`
