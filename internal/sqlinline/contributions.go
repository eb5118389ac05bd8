package sqlinline

// Contributions are append-only: insert and select are the only statements
// that exist for the table.

const QInsertContribution = `--sql 11d9316b-218f-4609-b99e-6ed5ff4df476
insert into contributions(id, gift_id, contributor_name, amount_minor, currency, message, country, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::bigint, $5::text, $6::text, $7::text, $8::timestamptz);
`

const QSumContributions = `--sql 4614b603-6ca5-4333-bc83-3c144c9923c9
select coalesce(sum(amount_minor), 0)::bigint, count(*)::int
from contributions
where gift_id = $1::uuid;
`

const QListContributions = `--sql 9bc488ff-d614-4d54-885d-7460b055af25
select id, gift_id, contributor_name, amount_minor, currency, message, country, created_at
from contributions
where gift_id = $1::uuid
order by seq asc;
`
